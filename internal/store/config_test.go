package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected default config to be valid, got %v", err)
	}
	if c.WindowSize != 30 {
		t.Fatalf("expected window size 30, got %d", c.WindowSize)
	}
	if c.Input.WindowColumn != 3 || c.Input.CloseColumn != 3 {
		t.Fatalf("expected both columns to default to 3, got %d/%d", c.Input.WindowColumn, c.Input.CloseColumn)
	}
	if c.Evaluator.BuyFloorInclusive || !c.Evaluator.SellFloorInclusive {
		t.Fatalf("expected exclusive buy floor and inclusive sell floor")
	}
}

func TestLoadYAMLKeepsUnsetDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
window_size: 10
output:
  format: JSON
evaluator:
  forced_sell_probability: 0
predictor:
  provider: sma
`)
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if c.WindowSize != 10 {
		t.Fatalf("expected window size 10, got %d", c.WindowSize)
	}
	if c.Output.Format != "json" {
		t.Fatalf("expected json output, got %q", c.Output.Format)
	}
	if c.Evaluator.ForcedSellProbability != 0 {
		t.Fatalf("expected forced sell disabled, got %v", c.Evaluator.ForcedSellProbability)
	}
	if c.Evaluator.BuyMultiplier != 1.2 {
		t.Fatalf("expected default multiplier, got %v", c.Evaluator.BuyMultiplier)
	}
	if !c.Evaluator.SellFloorInclusive {
		t.Fatalf("expected sell floor default to survive partial evaluator section")
	}
	if c.Predictor.Provider != "SMA" {
		t.Fatalf("expected provider SMA, got %q", c.Predictor.Provider)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
window_size = 20
seed = 99

[input]
window_column = 1
close_column = 4

[journal]
driver = "sqlite"
sqlite_path = "x.db"
`)
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if c.WindowSize != 20 || c.Seed != 99 {
		t.Fatalf("unexpected top level values: %+v", c)
	}
	if c.Input.WindowColumn != 1 || c.Input.CloseColumn != 4 {
		t.Fatalf("unexpected columns: %d/%d", c.Input.WindowColumn, c.Input.CloseColumn)
	}
	if c.Journal.Driver != "SQLITE" || c.Journal.SQLitePath != "x.db" {
		t.Fatalf("unexpected journal: %+v", c.Journal)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", "predictor:\n  provider: TSF\n")
	t.Setenv("BOT_PREDICTOR", "http")
	t.Setenv("BOT_PREDICTOR_URL", "http://localhost:9000/predict")
	t.Setenv("BOT_SEED", "7")
	t.Setenv("TRADER_LOG_DIR", "/tmp/decisions")

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if c.Predictor.Provider != "HTTP" || c.Predictor.URL != "http://localhost:9000/predict" {
		t.Fatalf("expected HTTP predictor from env, got %+v", c.Predictor)
	}
	if c.Seed != 7 {
		t.Fatalf("expected seed 7, got %d", c.Seed)
	}
	if c.Journal.Dir != "/tmp/decisions" {
		t.Fatalf("expected journal dir from env, got %q", c.Journal.Dir)
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"window size", func(c *Config) { c.WindowSize = 0 }},
		{"format", func(c *Config) { c.Output.Format = "xml" }},
		{"provider", func(c *Config) { c.Predictor.Provider = "KERAS" }},
		{"http without url", func(c *Config) { c.Predictor.Provider = "HTTP" }},
		{"delimiter", func(c *Config) { c.Input.Delimiter = ",," }},
		{"probability", func(c *Config) { c.Evaluator.ForcedSellProbability = -0.1 }},
		{"journal", func(c *Config) { c.Journal.Driver = "KAFKA" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadConfigOrDefaultMissingFile(t *testing.T) {
	c, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("expected defaults, got %v", err)
	}
	if c.WindowSize != 30 {
		t.Fatalf("expected default window size, got %d", c.WindowSize)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error from LoadConfig, got %v", err)
	}
}
