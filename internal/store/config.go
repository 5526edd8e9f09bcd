package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"seq-trading-bot/internal/evaluate"
)

type Config struct {
	WindowSize int    `yaml:"window_size" toml:"window_size"`
	Seed       uint64 `yaml:"seed" toml:"seed"`
	Symbol     string `yaml:"symbol" toml:"symbol"`

	Input struct {
		WindowColumn int    `yaml:"window_column" toml:"window_column"`
		CloseColumn  int    `yaml:"close_column" toml:"close_column"`
		Delimiter    string `yaml:"delimiter" toml:"delimiter"`
		SkipHeader   bool   `yaml:"skip_header" toml:"skip_header"`
		Strict       bool   `yaml:"strict" toml:"strict"`
	} `yaml:"input" toml:"input"`

	Output struct {
		Format    string `yaml:"format" toml:"format"`
		Precision int32  `yaml:"precision" toml:"precision"`
	} `yaml:"output" toml:"output"`

	Evaluator struct {
		ForcedSellProbability float64 `yaml:"forced_sell_probability" toml:"forced_sell_probability"`
		ForcedSellFraction    float64 `yaml:"forced_sell_fraction" toml:"forced_sell_fraction"`
		BuyMultiplier         float64 `yaml:"buy_multiplier" toml:"buy_multiplier"`
		MinFraction           float64 `yaml:"min_fraction" toml:"min_fraction"`
		BuyFloorInclusive     bool    `yaml:"buy_floor_inclusive" toml:"buy_floor_inclusive"`
		SellFloorInclusive    bool    `yaml:"sell_floor_inclusive" toml:"sell_floor_inclusive"`
	} `yaml:"evaluator" toml:"evaluator"`

	Predictor struct {
		Provider       string `yaml:"provider" toml:"provider"`
		URL            string `yaml:"url" toml:"url"`
		TimeoutSeconds int    `yaml:"timeout_seconds" toml:"timeout_seconds"`
		Retries        int    `yaml:"retries" toml:"retries"`
	} `yaml:"predictor" toml:"predictor"`

	Journal struct {
		Driver        string `yaml:"driver" toml:"driver"`
		Dir           string `yaml:"dir" toml:"dir"`
		SQLitePath    string `yaml:"sqlite_path" toml:"sqlite_path"`
		RetentionDays int    `yaml:"retention_days" toml:"retention_days"`
	} `yaml:"journal" toml:"journal"`
}

var predictorProviders = map[string]bool{
	"NAIVE":     true,
	"SMA":       true,
	"TSF":       true,
	"LINEARREG": true,
	"HTTP":      true,
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{WindowSize: 30, Symbol: "STDIN"}
	c.Input.WindowColumn = 3
	c.Input.CloseColumn = 3
	c.Input.Delimiter = ","
	c.Output.Format = "text"

	ev := evaluate.DefaultConfig()
	c.Evaluator.ForcedSellProbability = ev.ForcedSellProbability
	c.Evaluator.ForcedSellFraction = ev.ForcedSellFraction
	c.Evaluator.BuyMultiplier = ev.BuyMultiplier
	c.Evaluator.MinFraction = ev.MinFraction
	c.Evaluator.BuyFloorInclusive = ev.BuyFloorInclusive
	c.Evaluator.SellFloorInclusive = ev.SellFloorInclusive

	c.Predictor.Provider = "TSF"
	c.Predictor.TimeoutSeconds = 5
	c.Predictor.Retries = 2

	c.Journal.Driver = "FILE"
	c.Journal.Dir = "logs"
	c.Journal.SQLitePath = filepath.Join("logs", "decisions.db")
	return c
}

// EvaluatorConfig converts the evaluator section for the evaluate package.
func (c *Config) EvaluatorConfig() evaluate.Config {
	return evaluate.Config{
		ForcedSellProbability: c.Evaluator.ForcedSellProbability,
		ForcedSellFraction:    c.Evaluator.ForcedSellFraction,
		BuyMultiplier:         c.Evaluator.BuyMultiplier,
		MinFraction:           c.Evaluator.MinFraction,
		BuyFloorInclusive:     c.Evaluator.BuyFloorInclusive,
		SellFloorInclusive:    c.Evaluator.SellFloorInclusive,
	}
}

func (c *Config) Validate() error {
	if c.WindowSize <= 0 {
		return fmt.Errorf("window_size must be > 0, got %d", c.WindowSize)
	}
	if c.Input.WindowColumn < 0 || c.Input.CloseColumn < 0 {
		return errors.New("input columns must be >= 0")
	}
	if len([]rune(c.Input.Delimiter)) != 1 {
		return fmt.Errorf("input.delimiter must be a single character, got %q", c.Input.Delimiter)
	}
	if c.Output.Format != "text" && c.Output.Format != "json" {
		return fmt.Errorf("invalid output.format '%s': must be 'text' or 'json'", c.Output.Format)
	}
	if c.Output.Precision < 0 {
		return fmt.Errorf("output.precision must be >= 0, got %d", c.Output.Precision)
	}
	if err := c.EvaluatorConfig().Validate(); err != nil {
		return fmt.Errorf("evaluator: %w", err)
	}
	if !predictorProviders[c.Predictor.Provider] {
		return fmt.Errorf("invalid predictor.provider '%s': must be NAIVE, SMA, TSF, LINEARREG or HTTP", c.Predictor.Provider)
	}
	if c.Predictor.Provider == "HTTP" && c.Predictor.URL == "" {
		return errors.New("predictor.url is required for the HTTP provider")
	}
	if c.Predictor.TimeoutSeconds <= 0 {
		return fmt.Errorf("predictor.timeout_seconds must be > 0, got %d", c.Predictor.TimeoutSeconds)
	}
	if c.Predictor.Retries < 0 {
		return fmt.Errorf("predictor.retries must be >= 0, got %d", c.Predictor.Retries)
	}
	switch c.Journal.Driver {
	case "FILE", "SQLITE", "NONE":
	default:
		return fmt.Errorf("invalid journal.driver '%s': must be FILE, SQLITE or NONE", c.Journal.Driver)
	}
	return nil
}

// LoadConfig reads a YAML or TOML file (chosen by extension) on top of the
// defaults, applies environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse toml config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	}
	return finish(c)
}

// LoadConfigOrDefault behaves like LoadConfig but falls back to Default when
// the file does not exist.
func LoadConfigOrDefault(path string) (*Config, error) {
	c, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return finish(Default())
	}
	return c, err
}

func finish(c *Config) (*Config, error) {
	c.Predictor.Provider = strings.ToUpper(c.Predictor.Provider)
	c.Journal.Driver = strings.ToUpper(c.Journal.Driver)
	c.Output.Format = strings.ToLower(c.Output.Format)

	if err := applyEnv(c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

func applyEnv(c *Config) error {
	if v := os.Getenv("BOT_PREDICTOR"); v != "" {
		c.Predictor.Provider = strings.ToUpper(v)
	}
	if v := os.Getenv("BOT_PREDICTOR_URL"); v != "" {
		c.Predictor.URL = v
	}
	if v := os.Getenv("BOT_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid BOT_SEED %q: %w", v, err)
		}
		c.Seed = seed
	}
	if v := os.Getenv("TRADER_LOG_DIR"); v != "" {
		c.Journal.Dir = v
	}
	if v := os.Getenv("TRADER_LOG_RETENTION_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TRADER_LOG_RETENTION_DAYS %q: %w", v, err)
		}
		c.Journal.RetentionDays = days
	}
	return nil
}
