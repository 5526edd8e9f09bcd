package tradelog

import (
	"fmt"

	"seq-trading-bot/internal/interfaces"
	"seq-trading-bot/internal/store"
	"seq-trading-bot/internal/tradelog/sqlitelog"
)

// Open returns the journal selected by cfg.Journal.Driver.
func Open(cfg *store.Config) (interfaces.Journal, error) {
	switch cfg.Journal.Driver {
	case "FILE":
		return NewFileJournal(cfg.Journal.Dir, cfg.Symbol), nil
	case "SQLITE":
		return sqlitelog.Open(cfg.Journal.SQLitePath, cfg.Symbol)
	case "NONE":
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("unknown journal driver %q", cfg.Journal.Driver)
	}
}
