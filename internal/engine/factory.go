package engine

import (
	"seq-trading-bot/internal/evaluate"
	"seq-trading-bot/internal/interfaces"
	"seq-trading-bot/internal/store"
)

func New(cfg *store.Config, p interfaces.Predictor, ev *evaluate.Evaluator, j interfaces.Journal, runID string) interfaces.Engine {
	return newEngine(cfg, p, ev, j, runID)
}
