package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"seq-trading-bot/internal/engine"
	"seq-trading-bot/internal/engine/engineobs"
	"seq-trading-bot/internal/eod"
	"seq-trading-bot/internal/eod/eodobs"
	"seq-trading-bot/internal/evaluate"
	"seq-trading-bot/internal/interfaces"
	"seq-trading-bot/internal/logger"
	"seq-trading-bot/internal/predict"
	"seq-trading-bot/internal/predict/predictobs"
	"seq-trading-bot/internal/store"
	"seq-trading-bot/internal/trace"
	"seq-trading-bot/internal/tradelog"
)

// initializeSystem loads .env and sets up the logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// loadConfig loads the configuration file and applies command-line overrides
func loadConfig(ctx context.Context, opts *rootOptions) (*store.Config, error) {
	cfg, err := store.LoadConfigOrDefault(opts.configPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", opts.configPath)
		return nil, err
	}

	if opts.format != "" {
		cfg.Output.Format = strings.ToLower(opts.format)
	}
	if opts.predictor != "" {
		cfg.Predictor.Provider = strings.ToUpper(opts.predictor)
	}
	if opts.seedSet {
		cfg.Seed = opts.seed
	}
	if opts.strict {
		cfg.Input.Strict = true
	}
	if err := cfg.Validate(); err != nil {
		logger.ErrorWithErr(ctx, "Invalid command-line overrides", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldLogs compresses old journal files if retention is configured
func compressOldLogs(ctx context.Context, cfg *store.Config) {
	if cfg.Journal.RetentionDays <= 0 {
		return
	}
	if err := tradelog.CompressOlder(cfg.Journal.Dir, cfg.Journal.RetentionDays); err != nil {
		logger.Warn(ctx, "Failed to compress old logs", "error", err)
	}
}

// initializePredictor builds the configured forecaster with observability
func initializePredictor(ctx context.Context, cfg *store.Config) (interfaces.Predictor, error) {
	p, err := predict.New(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Predictor.Provider == "HTTP" {
		logger.Info(ctx, "Using remote forecaster", "url", cfg.Predictor.URL)
	} else {
		logger.Info(ctx, "Using local forecaster", "provider", p.Name())
	}
	return predictobs.Wrap(p), nil
}

// initializeEvaluator builds the decision evaluator with the configured seed
func initializeEvaluator(ctx context.Context, cfg *store.Config) *evaluate.Evaluator {
	if cfg.Seed == 0 {
		logger.Debug(ctx, "No seed configured - forced sells are not reproducible")
	}
	return evaluate.New(cfg.EvaluatorConfig(), evaluate.NewSource(cfg.Seed))
}

// initializeEngine initializes and returns the engine with observability
func initializeEngine(cfg *store.Config, p interfaces.Predictor, ev *evaluate.Evaluator, j interfaces.Journal) (interfaces.Engine, string) {
	runID := uuid.NewString()

	eng := engine.New(cfg, p, ev, j, runID)

	return engineobs.Wrap(eng), runID
}

// initializeEOD builds the EOD summarizer with observability
func initializeEOD(cfg *store.Config) interfaces.EodSummarizer {
	return eodobs.Wrap(eod.NewSummarizer(cfg.Journal.Dir))
}
