package tradelog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"seq-trading-bot/internal/types"
)

// DecisionEntry is one line of the daily decision file.
type DecisionEntry struct {
	Time          string  `json:"time"`
	RunID         string  `json:"run_id"`
	Symbol        string  `json:"symbol"`
	Line          int     `json:"line"`
	Action        string  `json:"action"`
	Fraction      float64 `json:"fraction"`
	Predicted     float64 `json:"predicted,omitempty"`
	PreviousClose float64 `json:"previous_close"`
	Reason        string  `json:"reason,omitempty"`
	WarmUp        bool    `json:"warm_up,omitempty"`
	Rejected      string  `json:"rejected,omitempty"`
}

func NewDecisionEntry(symbol string, r types.StepResult, at time.Time) DecisionEntry {
	return DecisionEntry{
		Time:          at.UTC().Format(time.RFC3339Nano),
		RunID:         r.RunID,
		Symbol:        symbol,
		Line:          r.Line,
		Action:        string(r.Decision.Action),
		Fraction:      r.Decision.Fraction,
		Predicted:     r.Predicted,
		PreviousClose: r.PreviousClose,
		Reason:        r.Decision.Reason,
		WarmUp:        r.WarmUp,
		Rejected:      r.Rejected,
	}
}

// FileJournal appends decisions to <dir>/decisions/YYYY-MM-DD.txt as NDJSON.
type FileJournal struct {
	mu     sync.Mutex
	dir    string
	symbol string
	now    func() time.Time
}

func NewFileJournal(dir, symbol string) *FileJournal {
	return &FileJournal{dir: dir, symbol: symbol, now: time.Now}
}

func (j *FileJournal) Record(ctx context.Context, r types.StepResult) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now()
	return appendLine(DecisionsFilepath(j.dir, now), NewDecisionEntry(j.symbol, r, now))
}

func (j *FileJournal) Close() error {
	return nil
}

// DecisionsFilepath is the journal file for the UTC day containing t.
func DecisionsFilepath(dir string, t time.Time) string {
	return filepath.Join(dir, "decisions", t.UTC().Format("2006-01-02")+".txt")
}

func appendLine(p string, v any) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal decision: %w", err)
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// Discard drops every decision.
type Discard struct{}

func (Discard) Record(ctx context.Context, r types.StepResult) error { return nil }
func (Discard) Close() error                                         { return nil }

// CompressOlder gzips journal files under dir last modified more than
// retentionDays ago and removes the originals.
func CompressOlder(dir string, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		// already compressed by an earlier run
		if _, err := os.Stat(gz); err == nil {
			_ = os.Remove(p)
			return nil
		}
		if err := gzipFile(p, gz); err != nil {
			_ = os.Remove(gz)
			return nil
		}
		_ = os.Remove(p)
		return nil
	})
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		_ = gw.Close()
		_ = out.Close()
		return err
	}
	if err := gw.Close(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
