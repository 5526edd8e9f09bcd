package interfaces

import (
	"context"

	"seq-trading-bot/internal/types"
)

// Journal records every emitted decision.
type Journal interface {
	Record(ctx context.Context, result types.StepResult) error
	Close() error
}
