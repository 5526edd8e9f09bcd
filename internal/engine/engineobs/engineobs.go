package engineobs

import (
	"context"
	"time"

	"seq-trading-bot/internal/interfaces"
	"seq-trading-bot/internal/logger"
	"seq-trading-bot/internal/trace"
	"seq-trading-bot/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) Step(ctx context.Context, row types.Row) (*types.StepResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Step")
	defer span.End()

	start := time.Now()

	logger.DebugSkip(ctx, 1, "Processing row",
		"line", row.Line,
		"fields", len(row.Values),
	)

	result, err := oe.engine.Step(ctx, row)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Row processing failed", err,
			"line", row.Line,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Row processed",
		"line", row.Line,
		"action", result.Decision.Action,
		"fraction", result.Decision.Fraction,
		"reason", result.Decision.Reason,
		"warm_up", result.WarmUp,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
