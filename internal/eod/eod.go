package eod

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"seq-trading-bot/internal/evaluate"
	"seq-trading-bot/internal/tradelog"
	"seq-trading-bot/internal/types"
)

var actionOrder = []types.Action{types.Buy, types.Sell, types.Hold}

type eodSummarizer struct {
	dir string
	now func() time.Time
}

// SummarizeDay aggregates the decision journal for the UTC day containing t
// into <dir>/eod/YYYY-MM-DD.csv. It returns a nil summary when the day has
// no decisions.
func (s *eodSummarizer) SummarizeDay(ctx context.Context, t time.Time) (*types.DaySummary, error) {
	in, err := openDecisions(decisionsFile(s.dir, t))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer in.Close()

	aggs := map[types.Action]*aggRow{}
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var e tradelog.DecisionEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		action := types.Action(e.Action)
		if !action.Valid() {
			continue
		}
		row := aggs[action]
		if row == nil {
			row = &aggRow{Action: e.Action}
			aggs[action] = row
		}
		row.Count++
		row.Fractions = row.Fractions.Add(decimal.NewFromFloat(e.Fraction))
		if e.Reason == evaluate.ReasonForcedSell {
			row.ForcedSells++
		}
		if e.Rejected != "" {
			row.Rejected++
		}
		if e.WarmUp {
			row.WarmUp++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(aggs) == 0 {
		return nil, nil
	}

	outPath := eodCSVPath(s.dir, t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	headers := []string{"action", "count", "total_fraction", "avg_fraction", "forced_sells", "rejected", "warm_up"}
	if err := w.Write(headers); err != nil {
		return nil, err
	}

	var total aggRow
	total.Action = "TOTAL"
	for _, a := range actionOrder {
		r := aggs[a]
		if r == nil {
			continue
		}
		if err := w.Write(record(r)); err != nil {
			return nil, err
		}
		total.Count += r.Count
		total.Fractions = total.Fractions.Add(r.Fractions)
		total.ForcedSells += r.ForcedSells
		total.Rejected += r.Rejected
		total.WarmUp += r.WarmUp
	}
	if err := w.Write(record(&total)); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	summary := &types.DaySummary{
		Date:          t.UTC().Format("2006-01-02"),
		CSVPath:       outPath,
		Decisions:     total.Count,
		Actions:       make(map[types.Action]int, len(aggs)),
		TotalFraction: total.Fractions.StringFixed(4),
		ForcedSells:   total.ForcedSells,
		Rejected:      total.Rejected,
		WarmUp:        total.WarmUp,
	}
	for a, r := range aggs {
		summary.Actions[a] = r.Count
	}
	return summary, nil
}

func (s *eodSummarizer) SummarizeToday(ctx context.Context) (*types.DaySummary, error) {
	return s.SummarizeDay(ctx, s.now())
}

func record(r *aggRow) []string {
	avg := decimal.Zero
	if r.Count > 0 {
		avg = r.Fractions.Div(decimal.NewFromInt(int64(r.Count)))
	}
	return []string{
		r.Action,
		strconv.Itoa(r.Count),
		r.Fractions.StringFixed(4),
		avg.StringFixed(4),
		strconv.Itoa(r.ForcedSells),
		strconv.Itoa(r.Rejected),
		strconv.Itoa(r.WarmUp),
	}
}

// openDecisions opens the day's journal, falling back to its gzipped copy.
func openDecisions(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	gf, err := os.Open(path + ".gz")
	if err != nil {
		return nil, err
	}
	gr, err := gzip.NewReader(gf)
	if err != nil {
		_ = gf.Close()
		return nil, err
	}
	return &gzipReadCloser{Reader: gr, file: gf}, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Close() error {
	_ = g.Reader.Close()
	return g.file.Close()
}
