package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Strategy.DailyInterval != "1d" || cfg.Strategy.WeeklyInterval != "1wk" {
		t.Errorf("interval defaults: got %q/%q", cfg.Strategy.DailyInterval, cfg.Strategy.WeeklyInterval)
	}
	if cfg.Strategy.RSIThreshold != 60 || cfg.Strategy.SMAPeriod != 21 || cfg.Strategy.RSIPeriod != 14 {
		t.Errorf("indicator defaults: got threshold=%v sma=%d rsi=%d",
			cfg.Strategy.RSIThreshold, cfg.Strategy.SMAPeriod, cfg.Strategy.RSIPeriod)
	}
	if cfg.Strategy.InitialCapital != 100000 {
		t.Errorf("initial capital default: got %v", cfg.Strategy.InitialCapital)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
strategy:
  symbol: RELIANCE.NS
  start_date: "2021-01-01"
  end_date: "2023-01-01"
  rsi_threshold: 55
database:
  sqlite_path: data/test.db
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RSI_THRESHOLD", "70")
	t.Setenv("SYMBOL", "TCS.NS")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Strategy.Symbol != "TCS.NS" {
		t.Errorf("env override lost: symbol=%q", cfg.Strategy.Symbol)
	}
	if cfg.Strategy.RSIThreshold != 70 {
		t.Errorf("env override lost: threshold=%v", cfg.Strategy.RSIThreshold)
	}
	if cfg.Database.SQLitePath != "data/test.db" {
		t.Errorf("file value lost: sqlite_path=%q", cfg.Database.SQLitePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error without a symbol")
	}

	cfg.Strategy.Symbol = "SPX500"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	cfg.Strategy.RSIThreshold = 120
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for out-of-range rsi_threshold")
	}
}

func TestDateRange(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Strategy.StartDate = "2022-01-01"
	cfg.Strategy.EndDate = "2021-01-01"
	if _, _, err := cfg.DateRange(); err == nil {
		t.Error("expected error for end before start")
	}

	cfg.Strategy.EndDate = ""
	start, end, err := cfg.DateRange()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !end.After(start) {
		t.Error("empty end date should default to today")
	}
}
