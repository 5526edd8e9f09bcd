package eodobs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"seq-trading-bot/internal/interfaces"
	"seq-trading-bot/internal/logger"
	"seq-trading-bot/internal/trace"
	"seq-trading-bot/internal/types"
)

type observableEodSummarizer struct {
	summarizer interfaces.EodSummarizer
}

var _ interfaces.EodSummarizer = (*observableEodSummarizer)(nil)

func Wrap(summarizer interfaces.EodSummarizer) interfaces.EodSummarizer {
	return &observableEodSummarizer{
		summarizer: summarizer,
	}
}

func (oes *observableEodSummarizer) SummarizeDay(ctx context.Context, t time.Time) (*types.DaySummary, error) {
	ctx, span := trace.StartSpan(ctx, "eod.SummarizeDay")
	defer span.End()

	day := t.UTC().Format("2006-01-02")
	start := time.Now()

	summary, err := oes.summarizer.SummarizeDay(ctx, t)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Decision roll-up failed", err, "date", day)
		return nil, err
	}
	oes.report(ctx, span, day, summary, time.Since(start))
	return summary, nil
}

func (oes *observableEodSummarizer) SummarizeToday(ctx context.Context) (*types.DaySummary, error) {
	ctx, span := trace.StartSpan(ctx, "eod.SummarizeToday")
	defer span.End()

	start := time.Now()

	summary, err := oes.summarizer.SummarizeToday(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Today's decision roll-up failed", err)
		return nil, err
	}
	day := time.Now().UTC().Format("2006-01-02")
	if summary != nil {
		day = summary.Date
	}
	oes.report(ctx, span, day, summary, time.Since(start))
	return summary, nil
}

// report logs the day's totals and copies them onto the span.
func (oes *observableEodSummarizer) report(ctx context.Context, span oteltrace.Span, day string, s *types.DaySummary, took time.Duration) {
	if s == nil {
		logger.InfoSkip(ctx, 2, "Journal empty, no EOD CSV written", "date", day)
		return
	}

	if trace.Enabled() {
		span.SetAttributes(
			attribute.String("eod.date", s.Date),
			attribute.Int("eod.decisions", s.Decisions),
			attribute.Int("eod.forced_sells", s.ForcedSells),
			attribute.Int("eod.rejected", s.Rejected),
		)
	}

	logger.InfoSkip(ctx, 2, "EOD CSV written",
		"date", s.Date,
		"csv_path", s.CSVPath,
		"decisions", s.Decisions,
		"buy", s.Actions[types.Buy],
		"sell", s.Actions[types.Sell],
		"hold", s.Actions[types.Hold],
		"total_fraction", s.TotalFraction,
		"forced_sells", s.ForcedSells,
		"rejected", s.Rejected,
		"warm_up", s.WarmUp,
		"duration_ms", took.Milliseconds(),
	)
}
