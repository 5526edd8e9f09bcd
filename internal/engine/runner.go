package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"seq-trading-bot/internal/feed"
	"seq-trading-bot/internal/interfaces"
	"seq-trading-bot/internal/logger"
	"seq-trading-bot/internal/types"
)

// RowSource yields input rows until io.EOF.
type RowSource interface {
	Next() (types.Row, error)
}

// Stats summarizes one streaming run.
type Stats struct {
	Rows     int
	Skipped  int
	WarmUp   int
	Rejected int
	Actions  map[types.Action]int
}

// Run reads rows from src on one goroutine and steps the engine on another,
// writing one output line per evaluated row in input order. Malformed rows
// are logged and skipped unless strict is set, in which case the first one
// ends the run with its error. Run returns ctx.Err() when cancelled.
func Run(ctx context.Context, eng interfaces.Engine, src RowSource, out *Writer, strict bool) (Stats, error) {
	stats := Stats{Actions: map[types.Action]int{}}
	skippedOnRead := 0

	g, gctx := errgroup.WithContext(ctx)
	rows := make(chan types.Row, 64)

	g.Go(func() error {
		defer close(rows)
		for {
			row, err := src.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				if !errors.Is(err, feed.ErrMalformedRow) || strict {
					return fmt.Errorf("read input: %w", err)
				}
				logger.Warn(gctx, "Skipping malformed row", "error", err)
				skippedOnRead++
				continue
			}
			select {
			case rows <- row:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	g.Go(func() error {
		for row := range rows {
			result, err := eng.Step(gctx, row)
			if err != nil {
				if !errors.Is(err, feed.ErrMalformedRow) || strict {
					return err
				}
				logger.Warn(gctx, "Skipping short row", "line", row.Line, "error", err)
				stats.Skipped++
				continue
			}
			if err := out.Write(result); err != nil {
				return fmt.Errorf("write decision: %w", err)
			}
			stats.Rows++
			stats.Actions[result.Decision.Action]++
			if result.WarmUp {
				stats.WarmUp++
			}
			if result.Rejected != "" {
				stats.Rejected++
			}
		}
		return gctx.Err()
	})

	err := g.Wait()
	stats.Skipped += skippedOnRead
	if err != nil && ctx.Err() != nil {
		return stats, ctx.Err()
	}
	return stats, err
}
