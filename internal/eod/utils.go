package eod

import (
	"path/filepath"
	"time"

	"seq-trading-bot/internal/tradelog"
)

func decisionsFile(dir string, t time.Time) string {
	return tradelog.DecisionsFilepath(dir, t)
}

func eodCSVPath(dir string, t time.Time) string {
	return filepath.Join(dir, "eod", t.UTC().Format("2006-01-02")+".csv")
}
