package predict

import (
	"context"
	"errors"
	"fmt"

	"github.com/markcheno/go-talib"
)

var ErrNotEnoughData = errors.New("not enough data for prediction")

// Naive predicts that the next value repeats the last one.
type Naive struct{}

func NewNaive() *Naive {
	return &Naive{}
}

func (n *Naive) Name() string {
	return "NAIVE"
}

func (n *Naive) Predict(ctx context.Context, window []float64) (float64, error) {
	if len(window) == 0 {
		return 0, ErrNotEnoughData
	}
	return window[len(window)-1], nil
}

// Indicator forecasts with a TA-Lib function evaluated over the whole window.
type Indicator struct {
	name string
	fn   func(inReal []float64, inTimePeriod int) []float64
}

// NewSMA forecasts the window mean.
func NewSMA() *Indicator {
	return &Indicator{name: "SMA", fn: talib.Sma}
}

// NewTSF projects the window's least-squares line one step ahead.
func NewTSF() *Indicator {
	return &Indicator{name: "TSF", fn: talib.Tsf}
}

// NewLinearReg returns the least-squares line's value at the newest point.
func NewLinearReg() *Indicator {
	return &Indicator{name: "LINEARREG", fn: talib.LinearReg}
}

func (i *Indicator) Name() string {
	return i.name
}

func (i *Indicator) Predict(ctx context.Context, window []float64) (float64, error) {
	if len(window) < 2 {
		return 0, fmt.Errorf("%s needs at least 2 values, got %d: %w", i.name, len(window), ErrNotEnoughData)
	}
	out := i.fn(window, len(window))
	if len(out) == 0 {
		return 0, fmt.Errorf("%s produced no output: %w", i.name, ErrNotEnoughData)
	}
	return out[len(out)-1], nil
}
