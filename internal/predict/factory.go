package predict

import (
	"fmt"
	"time"

	"seq-trading-bot/internal/interfaces"
	"seq-trading-bot/internal/store"
)

// New builds the predictor named by cfg.Predictor.Provider.
func New(cfg *store.Config) (interfaces.Predictor, error) {
	switch cfg.Predictor.Provider {
	case "NAIVE":
		return NewNaive(), nil
	case "SMA":
		return NewSMA(), nil
	case "TSF":
		return NewTSF(), nil
	case "LINEARREG":
		return NewLinearReg(), nil
	case "HTTP":
		timeout := time.Duration(cfg.Predictor.TimeoutSeconds) * time.Second
		return NewHTTP(cfg.Predictor.URL, timeout, cfg.Predictor.Retries), nil
	default:
		return nil, fmt.Errorf("unknown predictor provider %q", cfg.Predictor.Provider)
	}
}
