package interfaces

import (
	"context"

	"seq-trading-bot/internal/types"
)

type Engine interface {
	Step(ctx context.Context, row types.Row) (*types.StepResult, error)
}
