package predict

import (
	"context"
	"errors"
	"math"
	"testing"

	"seq-trading-bot/internal/store"
)

func linearSeries(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i + 1)
	}
	return values
}

func TestIndicatorsOnLinearSeries(t *testing.T) {
	window := linearSeries(30)
	tests := []struct {
		name     string
		expected float64
	}{
		{"SMA", 15.5},
		{"TSF", 31},
		{"LINEARREG", 30},
		{"NAIVE", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := store.Default()
			cfg.Predictor.Provider = tt.name
			p, err := New(cfg)
			if err != nil {
				t.Fatalf("build predictor: %v", err)
			}
			if p.Name() != tt.name {
				t.Fatalf("expected name %s, got %s", tt.name, p.Name())
			}
			got, err := p.Predict(context.Background(), window)
			if err != nil {
				t.Fatalf("predict: %v", err)
			}
			if math.Abs(got-tt.expected) > 1e-6 {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestIndicatorNeedsTwoValues(t *testing.T) {
	if _, err := NewTSF().Predict(context.Background(), []float64{1}); !errors.Is(err, ErrNotEnoughData) {
		t.Fatalf("expected ErrNotEnoughData, got %v", err)
	}
	if _, err := NewNaive().Predict(context.Background(), nil); !errors.Is(err, ErrNotEnoughData) {
		t.Fatalf("expected ErrNotEnoughData for empty window, got %v", err)
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	cfg := store.Default()
	cfg.Predictor.Provider = "KERAS"
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
