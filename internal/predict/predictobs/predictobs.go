package predictobs

import (
	"context"
	"time"

	"seq-trading-bot/internal/interfaces"
	"seq-trading-bot/internal/logger"
	"seq-trading-bot/internal/trace"
)

// observablePredictor wraps a Predictor with logging and tracing
type observablePredictor struct {
	predictor interfaces.Predictor
}

var _ interfaces.Predictor = (*observablePredictor)(nil)

func Wrap(predictor interfaces.Predictor) interfaces.Predictor {
	return &observablePredictor{predictor: predictor}
}

func (op *observablePredictor) Name() string {
	return op.predictor.Name()
}

func (op *observablePredictor) Predict(ctx context.Context, window []float64) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "predict.Predict")
	defer span.End()

	start := time.Now()
	logger.DebugSkip(ctx, 1, "Requesting forecast",
		"provider", op.predictor.Name(),
		"window_len", len(window),
	)

	prediction, err := op.predictor.Predict(ctx, window)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Forecast failed", err,
			"provider", op.predictor.Name(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return 0, err
	}

	logger.DebugSkip(ctx, 1, "Forecast received",
		"provider", op.predictor.Name(),
		"prediction", prediction,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return prediction, nil
}
