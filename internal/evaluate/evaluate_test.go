package evaluate

import (
	"errors"
	"math"
	"testing"

	"seq-trading-bot/internal/types"
)

// noForce never triggers the forced sell branch.
const noForce = FixedSource(0.99)

func TestEvaluateExamples(t *testing.T) {
	ev := New(DefaultConfig(), noForce)

	tests := []struct {
		name      string
		predicted float64
		prevClose float64
		action    types.Action
		fraction  float64
	}{
		{"strong upward", 130, 100, types.Buy, 1 - 100.0/130.0},
		{"downward clamps to floor", 90, 100, types.Sell, 0.01},
		{"inside band", 105, 100, types.Hold, 0},
		{"equal to close", 100, 100, types.Hold, 0},
		{"far above close", 1000, 1, types.Buy, 1 - 1.0/1000.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ev.Evaluate(tt.predicted, tt.prevClose)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Action != tt.action {
				t.Fatalf("expected %s, got %s", tt.action, got.Action)
			}
			if math.Abs(got.Fraction-tt.fraction) > 1e-12 {
				t.Fatalf("expected fraction %v, got %v", tt.fraction, got.Fraction)
			}
		})
	}
}

func TestEvaluateBuyBoundaryIsHold(t *testing.T) {
	prev := 100.0
	got, err := Decide(prev*1.2, prev, 0.99, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Action != types.Hold || got.Fraction != 0 {
		t.Fatalf("expected HOLD 0 at the buy boundary, got %s %v", got.Action, got.Fraction)
	}

	got, err = Decide(math.Nextafter(prev*1.2, math.Inf(1)), prev, 0.99, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Action != types.Buy {
		t.Fatalf("expected BUY just above the boundary, got %s", got.Action)
	}
}

func TestEvaluateSellBoundaryIsHold(t *testing.T) {
	got, err := Decide(50, 50, 0.99, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Action != types.Hold {
		t.Fatalf("expected HOLD when prediction equals close, got %s", got.Action)
	}

	got, err = Decide(math.Nextafter(50, 0), 50, 0.99, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Action != types.Sell {
		t.Fatalf("expected SELL just below close, got %s", got.Action)
	}
}

func TestForcedSellShortCircuits(t *testing.T) {
	ev := New(DefaultConfig(), FixedSource(0.1))
	for _, predicted := range []float64{130, 105, 90} {
		got, err := ev.Evaluate(predicted, 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Action != types.Sell || got.Fraction != 0.8 || got.Reason != ReasonForcedSell {
			t.Fatalf("expected forced SELL 0.8 for predicted=%v, got %+v", predicted, got)
		}
	}
}

func TestForcedSellThresholdIsExclusive(t *testing.T) {
	got, err := Decide(105, 100, 0.15, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Action != types.Hold {
		t.Fatalf("draw equal to the probability must not force a sell, got %s", got.Action)
	}
}

func TestForcedSellFrequency(t *testing.T) {
	ev := New(DefaultConfig(), NewSource(42))
	const n = 20000
	sells := 0
	for i := 0; i < n; i++ {
		got, err := ev.Evaluate(105, 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Action == types.Sell {
			sells++
		}
	}
	rate := float64(sells) / n
	if math.Abs(rate-0.15) > 0.015 {
		t.Fatalf("expected forced sell rate near 0.15, got %.4f", rate)
	}
}

func TestEvaluateDeterministicForFixedDraw(t *testing.T) {
	ev := New(DefaultConfig(), noForce)
	first, err := ev.Evaluate(137.5, 101.25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		got, err := ev.Evaluate(137.5, 101.25)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != first {
			t.Fatalf("expected identical decision, got %+v and %+v", first, got)
		}
	}
}

func TestEvaluateFractionRange(t *testing.T) {
	ev := New(DefaultConfig(), NewSource(7))
	prices := []float64{0.01, 0.5, 1, 9.99, 50, 99.9, 100, 100.1, 119.9, 120, 120.1, 500, 1e6}
	for _, predicted := range prices {
		for _, prev := range prices {
			got, err := ev.Evaluate(predicted, prev)
			if err != nil {
				t.Fatalf("unexpected error for (%v, %v): %v", predicted, prev, err)
			}
			if !got.Action.Valid() {
				t.Fatalf("invalid action %q", got.Action)
			}
			if got.Fraction < 0 || got.Fraction > 1 {
				t.Fatalf("fraction %v out of range for (%v, %v)", got.Fraction, predicted, prev)
			}
			if got.Action == types.Hold && got.Fraction != 0 {
				t.Fatalf("HOLD must carry a zero fraction, got %v", got.Fraction)
			}
		}
	}
}

func TestEvaluateRejectsInvalidPrices(t *testing.T) {
	ev := New(DefaultConfig(), FixedSource(0))

	tests := []struct {
		name      string
		predicted float64
		prevClose float64
		field     string
	}{
		{"negative prediction", -10, 100, "predicted price"},
		{"zero prediction", 0, 100, "predicted price"},
		{"zero close", 100, 0, "previous close price"},
		{"negative close", 100, -1, "previous close price"},
		{"nan prediction", math.NaN(), 100, "predicted price"},
		{"infinite close", 100, math.Inf(1), "previous close price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ev.Evaluate(tt.predicted, tt.prevClose)
			if !errors.Is(err, ErrInvalidPrice) {
				t.Fatalf("expected ErrInvalidPrice, got %v", err)
			}
			var priceErr *InvalidPriceError
			if !errors.As(err, &priceErr) {
				t.Fatalf("expected *InvalidPriceError, got %T", err)
			}
			if priceErr.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, priceErr.Field)
			}
		})
	}
}

func TestClampFloorInclusivity(t *testing.T) {
	if got := clampFraction(0, 0.01, false); got != 0 {
		t.Fatalf("exclusive floor must keep zero, got %v", got)
	}
	if got := clampFraction(0, 0.01, true); got != 0.01 {
		t.Fatalf("inclusive floor must lift zero to 0.01, got %v", got)
	}
	if got := clampFraction(-0.5, 0.01, false); got != 0.01 {
		t.Fatalf("negative fraction must be floored, got %v", got)
	}
	if got := clampFraction(1.5, 0.01, true); got != 1 {
		t.Fatalf("fraction above one must be capped, got %v", got)
	}
	if got := clampFraction(0.3, 0.01, true); got != 0.3 {
		t.Fatalf("in-range fraction must pass through, got %v", got)
	}
}

func TestDefaultConfigKeepsFloorAsymmetry(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.BuyFloorInclusive {
		t.Fatalf("buy floor must be exclusive by default")
	}
	if !cfg.SellFloorInclusive {
		t.Fatalf("sell floor must be inclusive by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ForcedSellProbability = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for probability above one")
	}

	cfg = DefaultConfig()
	cfg.BuyMultiplier = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for zero multiplier")
	}
}
