package predict

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type predictRequest struct {
	Window []float64 `json:"window"`
}

type predictResponse struct {
	Prediction *float64 `json:"prediction"`
	Error      string   `json:"error,omitempty"`
}

// HTTP asks a model-serving endpoint for the forecast.
type HTTP struct {
	client *resty.Client
	url    string
}

func NewHTTP(url string, timeout time.Duration, retries int) *HTTP {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")
	client.SetRetryCount(retries)
	client.SetRetryWaitTime(100 * time.Millisecond)
	client.SetRetryMaxWaitTime(2 * time.Second)
	// transport errors and 5xx responses are retried
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || (r != nil && r.StatusCode() >= 500)
	})

	return &HTTP{client: client, url: url}
}

func (h *HTTP) Name() string {
	return "HTTP"
}

func (h *HTTP) Predict(ctx context.Context, window []float64) (float64, error) {
	if len(window) == 0 {
		return 0, ErrNotEnoughData
	}

	var out predictResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(predictRequest{Window: window}).
		SetResult(&out).
		Post(h.url)
	if err != nil {
		return 0, fmt.Errorf("request prediction: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("predictor returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if out.Error != "" {
		return 0, fmt.Errorf("predictor error: %s", out.Error)
	}
	if out.Prediction == nil {
		return 0, errors.New("predictor response has no prediction")
	}
	return *out.Prediction, nil
}
