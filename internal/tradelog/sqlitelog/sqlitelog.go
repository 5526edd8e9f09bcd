package sqlitelog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"seq-trading-bot/internal/types"
)

// Journal stores decisions in a SQLite database.
type Journal struct {
	db     *sql.DB
	symbol string
}

func Open(dbPath, symbol string) (*Journal, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection keeps :memory: databases alive across calls
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", p, err)
		}
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db, symbol: symbol}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS decisions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL,
    symbol TEXT NOT NULL,
    line INTEGER NOT NULL,
    action TEXT NOT NULL,
    fraction REAL NOT NULL,
    predicted REAL,
    previous_close REAL NOT NULL,
    reason TEXT,
    warm_up INTEGER NOT NULL DEFAULT 0,
    rejected TEXT,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_run ON decisions(run_id);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (j *Journal) Record(ctx context.Context, r types.StepResult) error {
	_, err := j.db.ExecContext(ctx, `
INSERT INTO decisions (run_id, symbol, line, action, fraction, predicted, previous_close, reason, warm_up, rejected, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, j.symbol, r.Line, string(r.Decision.Action), r.Decision.Fraction,
		r.Predicted, r.PreviousClose, r.Decision.Reason, r.WarmUp, r.Rejected,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// ActionCounts returns the number of decisions per action for a run.
func (j *Journal) ActionCounts(ctx context.Context, runID string) (map[types.Action]int, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT action, COUNT(*) FROM decisions WHERE run_id = ? GROUP BY action`, runID)
	if err != nil {
		return nil, fmt.Errorf("query action counts: %w", err)
	}
	defer rows.Close()

	counts := map[types.Action]int{}
	for rows.Next() {
		var action string
		var n int
		if err := rows.Scan(&action, &n); err != nil {
			return nil, err
		}
		counts[types.Action(action)] = n
	}
	return counts, rows.Err()
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}
