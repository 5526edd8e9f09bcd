package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"seq-trading-bot/internal/engine"
	"seq-trading-bot/internal/evaluate"
	"seq-trading-bot/internal/feed"
	"seq-trading-bot/internal/logger"
	"seq-trading-bot/internal/trace"
	"seq-trading-bot/internal/tradelog"
	"seq-trading-bot/internal/tradelog/sqlitelog"
	"seq-trading-bot/internal/types"
)

type rootOptions struct {
	configPath string
	format     string
	predictor  string
	seed       uint64
	seedSet    bool
	strict     bool
}

func main() {
	err := newRootCmd().Execute()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = trace.Shutdown(ctx)
	cancel()

	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "bot",
		Short: "Streaming BUY/SELL/HOLD decisions from price rows",
		Long: `bot reads comma-separated price rows from stdin, keeps a rolling window,
forecasts the next price and writes one "ACTION FRACTION" line per row to stdout.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.seedSet = cmd.Flags().Changed("seed")
			return initializeSystem()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStream(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "config.yaml", "Configuration file (.yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "", "Output format: text or json")
	rootCmd.PersistentFlags().StringVar(&opts.predictor, "predictor", "", "Forecaster: NAIVE, SMA, TSF, LINEARREG or HTTP")
	rootCmd.PersistentFlags().Uint64Var(&opts.seed, "seed", 0, "Seed for the forced-sell draw (0 picks a random seed)")
	rootCmd.PersistentFlags().BoolVar(&opts.strict, "strict", false, "Stop on the first malformed row")

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newEvaluateCmd(opts))
	rootCmd.AddCommand(newSummarizeCmd(opts))
	rootCmd.AddCommand(newCompressCmd(opts))

	return rootCmd
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Stream decisions from stdin to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStream(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func newEvaluateCmd(opts *rootOptions) *cobra.Command {
	var draw float64

	cmd := &cobra.Command{
		Use:   "evaluate PREDICTED CLOSE",
		Short: "Evaluate a single predicted price against a previous close",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			predicted, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid predicted price %q: %w", args[0], err)
			}
			prevClose, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid close price %q: %w", args[1], err)
			}

			cfg, err := loadConfig(ctx, opts)
			if err != nil {
				return err
			}

			ev := initializeEvaluator(ctx, cfg)
			if cmd.Flags().Changed("draw") {
				ev = evaluate.New(cfg.EvaluatorConfig(), evaluate.FixedSource(draw))
			}

			decision, err := ev.Evaluate(predicted, prevClose)
			if err != nil {
				return err
			}
			out := engine.NewWriter(cmd.OutOrStdout(), cfg.Output.Format, cfg.Output.Precision)
			return out.Write(&types.StepResult{
				Decision:      decision,
				Predicted:     predicted,
				PreviousClose: prevClose,
			})
		},
	}

	cmd.Flags().Float64Var(&draw, "draw", 0, "Fixed random draw in [0, 1) instead of the seeded source")

	return cmd
}

func newSummarizeCmd(opts *rootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Write the end-of-day CSV summary of the decision journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := loadConfig(ctx, opts)
			if err != nil {
				return err
			}

			day := time.Now().UTC()
			if date != "" {
				day, err = time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", date, err)
				}
			}

			summary, err := initializeEOD(cfg).SummarizeDay(ctx, day)
			if err != nil {
				return err
			}
			if summary != nil {
				fmt.Fprintln(cmd.OutOrStdout(), summary.CSVPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to summarize in YYYY-MM-DD format (today if not provided)")

	return cmd
}

func newCompressCmd(opts *rootOptions) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "compress",
		Short: "Gzip journal files older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := loadConfig(ctx, opts)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("days") {
				cfg.Journal.RetentionDays = days
			}
			if cfg.Journal.RetentionDays <= 0 {
				return errors.New("retention days must be > 0")
			}
			if err := tradelog.CompressOlder(cfg.Journal.Dir, cfg.Journal.RetentionDays); err != nil {
				return err
			}
			logger.Info(ctx, "Journal compressed", "dir", cfg.Journal.Dir, "retention_days", cfg.Journal.RetentionDays)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Retention in days (defaults to journal.retention_days)")

	return cmd
}

// runStream drives input rows through the engine until EOF or a signal.
func runStream(parent context.Context, opts *rootOptions, in io.Reader, w io.Writer) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		return err
	}

	compressOldLogs(ctx, cfg)

	p, err := initializePredictor(ctx, cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize forecaster", err)
		return err
	}
	ev := initializeEvaluator(ctx, cfg)

	journal, err := tradelog.Open(cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to open decision journal", err, "driver", cfg.Journal.Driver)
		return err
	}
	defer journal.Close()

	eng, runID := initializeEngine(cfg, p, ev, journal)

	// a blocked stdin read only returns once the file is closed
	if f, ok := in.(*os.File); ok {
		go func() {
			<-ctx.Done()
			_ = f.Close()
		}()
	}

	logger.Info(ctx, "Bot started",
		"run_id", runID,
		"symbol", cfg.Symbol,
		"window_size", cfg.WindowSize,
		"predictor", p.Name(),
		"journal", cfg.Journal.Driver,
	)

	src := feed.NewReader(in, feed.Options{
		Comma:      []rune(cfg.Input.Delimiter)[0],
		SkipHeader: cfg.Input.SkipHeader,
	})
	out := engine.NewWriter(w, cfg.Output.Format, cfg.Output.Precision)

	stats, runErr := engine.Run(ctx, eng, src, out, cfg.Input.Strict)

	logger.Info(ctx, "Shutting down...",
		"run_id", runID,
		"rows", stats.Rows,
		"skipped", stats.Skipped,
		"warm_up", stats.WarmUp,
		"rejected", stats.Rejected,
		"buy", stats.Actions[types.Buy],
		"sell", stats.Actions[types.Sell],
		"hold", stats.Actions[types.Hold],
	)

	switch j := journal.(type) {
	case *tradelog.FileJournal:
		_, _ = initializeEOD(cfg).SummarizeToday(context.Background())
	case *sqlitelog.Journal:
		if counts, err := j.ActionCounts(context.Background(), runID); err == nil {
			logger.Info(context.Background(), "Run journaled",
				"run_id", runID,
				"path", cfg.Journal.SQLitePath,
				"buy", counts[types.Buy],
				"sell", counts[types.Sell],
				"hold", counts[types.Hold],
			)
		}
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.ErrorWithErr(context.Background(), "Run failed", runErr, "run_id", runID)
		return runErr
	}
	return nil
}
