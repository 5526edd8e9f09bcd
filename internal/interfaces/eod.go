package interfaces

import (
	"context"
	"time"

	"seq-trading-bot/internal/types"
)

// EodSummarizer rolls a day of journaled decisions into a CSV report. A nil
// summary with a nil error means the day has no decisions.
type EodSummarizer interface {
	SummarizeDay(ctx context.Context, t time.Time) (*types.DaySummary, error)
	SummarizeToday(ctx context.Context) (*types.DaySummary, error)
}
