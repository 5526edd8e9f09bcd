package eod

import (
	"time"

	"seq-trading-bot/internal/interfaces"
)

func NewSummarizer(dir string) interfaces.EodSummarizer {
	return &eodSummarizer{dir: dir, now: time.Now}
}
