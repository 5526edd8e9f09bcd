package predict

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestHTTPPredictorPostsWindow(t *testing.T) {
	var received predictRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"prediction": 123.5}`))
	}))
	defer srv.Close()

	p := NewHTTP(srv.URL, time.Second, 0)
	got, err := p.Predict(context.Background(), []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if got != 123.5 {
		t.Fatalf("expected 123.5, got %v", got)
	}
	if len(received.Window) != 3 || received.Window[2] != 3 {
		t.Fatalf("unexpected request body: %+v", received)
	}
}

func TestHTTPPredictorRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error": "warming up"}`))
			return
		}
		_, _ = w.Write([]byte(`{"prediction": 7}`))
	}))
	defer srv.Close()

	p := NewHTTP(srv.URL, time.Second, 2)
	got, err := p.Predict(context.Background(), []float64{1})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if got != 7 {
		t.Fatalf("expected 7, got %v", got)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestHTTPPredictorErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"client error", http.StatusBadRequest, `{"error": "bad window"}`},
		{"error field", http.StatusOK, `{"error": "model not loaded"}`},
		{"missing prediction", http.StatusOK, `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewHTTP(srv.URL, time.Second, 0)
			if _, err := p.Predict(context.Background(), []float64{1}); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestHTTPPredictorRetriesDroppedConnections(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Errorf("response writer cannot hijack")
				return
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Errorf("hijack: %v", err)
				return
			}
			_ = conn.Close()
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"prediction": 42}`))
	}))
	defer srv.Close()

	p := NewHTTP(srv.URL, time.Second, 2)
	got, err := p.Predict(context.Background(), []float64{1, 2})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if got != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
	if n := atomic.LoadInt32(&calls); n < 2 {
		t.Fatalf("expected the dropped request to be retried, got %d calls", n)
	}
}
