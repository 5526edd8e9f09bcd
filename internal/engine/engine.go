package engine

import (
	"context"
	"fmt"
	"math"

	"seq-trading-bot/internal/evaluate"
	"seq-trading-bot/internal/feed"
	"seq-trading-bot/internal/interfaces"
	"seq-trading-bot/internal/logger"
	"seq-trading-bot/internal/store"
	"seq-trading-bot/internal/types"
	"seq-trading-bot/internal/window"
)

const (
	ReasonWarmUp           = "warm_up"
	ReasonPredictionFailed = "prediction_failed"
	ReasonInvalidPrice     = "invalid_price"
)

type engine struct {
	cfg       *store.Config
	window    *window.Window
	predictor interfaces.Predictor
	evaluator *evaluate.Evaluator
	journal   interfaces.Journal
	runID     string
	seen      int
}

func newEngine(cfg *store.Config, p interfaces.Predictor, ev *evaluate.Evaluator, j interfaces.Journal, runID string) *engine {
	return &engine{
		cfg:       cfg,
		window:    window.New(cfg.WindowSize),
		predictor: p,
		evaluator: ev,
		journal:   j,
		runID:     runID,
	}
}

// Step consumes one input row. Rows up to and including the WindowSize-th
// only fill the window and yield HOLD 0; later rows are forecast and
// evaluated. Forecast or price failures yield HOLD 0 with Rejected set; only
// a malformed row returns an error.
func (e *engine) Step(ctx context.Context, row types.Row) (*types.StepResult, error) {
	value, err := feed.Column(row, e.cfg.Input.WindowColumn)
	if err != nil {
		return nil, err
	}
	prevClose, err := feed.Column(row, e.cfg.Input.CloseColumn)
	if err != nil {
		return nil, err
	}

	e.window.Add(value)
	e.seen++

	result := &types.StepResult{
		RunID:         e.runID,
		Line:          row.Line,
		PreviousClose: prevClose,
	}

	if e.seen <= e.cfg.WindowSize {
		result.WarmUp = true
		result.Decision = types.Decision{Action: types.Hold, Fraction: 0, Reason: ReasonWarmUp}
		logger.Debug(ctx, "Window warming up", "line", row.Line, "seen", e.seen, "window_size", e.cfg.WindowSize)
		e.record(ctx, result)
		return result, nil
	}

	predicted, err := e.predictor.Predict(ctx, e.window.Values())
	if err == nil && (math.IsNaN(predicted) || math.IsInf(predicted, 0)) {
		err = fmt.Errorf("forecast is not finite: %v", predicted)
	}
	if err != nil {
		logger.Warn(ctx, "Forecast unavailable, holding", "line", row.Line, "provider", e.predictor.Name(), "error", err)
		result.Decision = types.Decision{Action: types.Hold, Fraction: 0, Reason: ReasonPredictionFailed}
		result.Rejected = err.Error()
		e.record(ctx, result)
		return result, nil
	}
	result.Predicted = predicted

	decision, err := e.evaluator.Evaluate(predicted, prevClose)
	if err != nil {
		logger.Warn(ctx, "Decision rejected, holding",
			"line", row.Line,
			"predicted", predicted,
			"previous_close", prevClose,
			"error", err,
		)
		result.Decision = types.Decision{Action: types.Hold, Fraction: 0, Reason: ReasonInvalidPrice}
		result.Rejected = err.Error()
		e.record(ctx, result)
		return result, nil
	}
	result.Decision = decision

	logger.Decision(ctx, e.cfg.Symbol, string(decision.Action), decision.Fraction, decision.Reason,
		"line", row.Line,
		"predicted", predicted,
		"previous_close", prevClose,
	)
	e.record(ctx, result)
	return result, nil
}

func (e *engine) record(ctx context.Context, result *types.StepResult) {
	if e.journal == nil {
		return
	}
	if err := e.journal.Record(ctx, *result); err != nil {
		logger.Warn(ctx, "Failed to journal decision", "line", result.Line, "error", err)
	}
}
