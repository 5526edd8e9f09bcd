package evaluate

import (
	"fmt"
	"math"

	"seq-trading-bot/internal/types"
)

const (
	ReasonForcedSell = "forced_sell"
	ReasonAboveBand  = "predicted_above_band"
	ReasonBelowClose = "predicted_below_close"
	ReasonWithinBand = "within_band"
)

// Config holds the thresholds of the decision rules.
type Config struct {
	ForcedSellProbability float64
	ForcedSellFraction    float64
	BuyMultiplier         float64
	MinFraction           float64
	// BuyFloorInclusive applies MinFraction to a zero BUY fraction as well
	// as a negative one.
	BuyFloorInclusive bool
	// SellFloorInclusive applies MinFraction to a zero SELL fraction as well
	// as a negative one.
	SellFloorInclusive bool
}

func DefaultConfig() Config {
	return Config{
		ForcedSellProbability: 0.15,
		ForcedSellFraction:    0.8,
		BuyMultiplier:         1.2,
		MinFraction:           0.01,
		BuyFloorInclusive:     false,
		SellFloorInclusive:    true,
	}
}

func (c Config) Validate() error {
	if c.ForcedSellProbability < 0 || c.ForcedSellProbability > 1 {
		return fmt.Errorf("forced sell probability must be within [0,1], got %v", c.ForcedSellProbability)
	}
	if c.ForcedSellFraction < 0 || c.ForcedSellFraction > 1 {
		return fmt.Errorf("forced sell fraction must be within [0,1], got %v", c.ForcedSellFraction)
	}
	if c.MinFraction < 0 || c.MinFraction > 1 {
		return fmt.Errorf("min fraction must be within [0,1], got %v", c.MinFraction)
	}
	if c.BuyMultiplier <= 0 || math.IsNaN(c.BuyMultiplier) || math.IsInf(c.BuyMultiplier, 0) {
		return fmt.Errorf("buy multiplier must be a positive finite number, got %v", c.BuyMultiplier)
	}
	return nil
}

// Evaluator turns a price forecast into a trade decision. It is safe for
// concurrent use when its Source is.
type Evaluator struct {
	cfg Config
	src Source
}

func New(cfg Config, src Source) *Evaluator {
	if src == nil {
		src = NewSource(0)
	}
	return &Evaluator{cfg: cfg, src: src}
}

func (e *Evaluator) Config() Config {
	return e.cfg
}

// Evaluate validates both prices, consumes one draw from the source and
// applies Decide.
func (e *Evaluator) Evaluate(predicted, previousClose float64) (types.Decision, error) {
	if err := validatePrices(predicted, previousClose); err != nil {
		return types.Decision{}, err
	}
	return Decide(predicted, previousClose, e.src.Float64(), e.cfg)
}

// Decide is the pure decision rule. draw is a uniform value in [0, 1); a draw
// below cfg.ForcedSellProbability forces a sell regardless of prices.
func Decide(predicted, previousClose, draw float64, cfg Config) (types.Decision, error) {
	if err := validatePrices(predicted, previousClose); err != nil {
		return types.Decision{}, err
	}

	if draw < cfg.ForcedSellProbability {
		return types.Decision{Action: types.Sell, Fraction: cfg.ForcedSellFraction, Reason: ReasonForcedSell}, nil
	}

	if predicted > previousClose*cfg.BuyMultiplier {
		frac := 1.0 - previousClose/predicted
		return types.Decision{
			Action:   types.Buy,
			Fraction: clampFraction(frac, cfg.MinFraction, cfg.BuyFloorInclusive),
			Reason:   ReasonAboveBand,
		}, nil
	}

	if predicted < previousClose {
		frac := 1.0 - previousClose/predicted
		return types.Decision{
			Action:   types.Sell,
			Fraction: clampFraction(frac, cfg.MinFraction, cfg.SellFloorInclusive),
			Reason:   ReasonBelowClose,
		}, nil
	}

	return types.Decision{Action: types.Hold, Fraction: 0.0, Reason: ReasonWithinBand}, nil
}

func clampFraction(frac, floor float64, inclusive bool) float64 {
	if frac > 1 {
		return 1.0
	}
	if frac < 0 || (inclusive && frac == 0) {
		return floor
	}
	return frac
}

func validatePrices(predicted, previousClose float64) error {
	if !validPrice(previousClose) {
		return &InvalidPriceError{Field: "previous close price", Value: previousClose}
	}
	if !validPrice(predicted) {
		return &InvalidPriceError{Field: "predicted price", Value: predicted}
	}
	return nil
}

func validPrice(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
