package interfaces

import "context"

// Predictor forecasts the next value of a series from its recent window,
// oldest value first.
type Predictor interface {
	Name() string
	Predict(ctx context.Context, window []float64) (float64, error)
}
