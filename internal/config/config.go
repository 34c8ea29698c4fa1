package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Strategy struct {
		Symbol         string  `yaml:"symbol"`
		StartDate      string  `yaml:"start_date"` // 2006-01-02
		EndDate        string  `yaml:"end_date"`   // empty means today
		DailyInterval  string  `yaml:"daily_interval"`
		WeeklyInterval string  `yaml:"weekly_interval"`
		RSIThreshold   float64 `yaml:"rsi_threshold"`
		RSIPeriod      int     `yaml:"rsi_period"`
		SMAPeriod      int     `yaml:"sma_period"`
		InitialCapital float64 `yaml:"initial_capital"`
	} `yaml:"strategy"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		BacktestCron string `yaml:"backtest_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SYMBOL"); v != "" {
		cfg.Strategy.Symbol = v
	}
	if v := os.Getenv("START_DATE"); v != "" {
		cfg.Strategy.StartDate = v
	}
	if v := os.Getenv("END_DATE"); v != "" {
		cfg.Strategy.EndDate = v
	}
	if v := os.Getenv("RSI_THRESHOLD"); v != "" {
		var threshold float64
		if _, err := fmt.Sscanf(v, "%f", &threshold); err == nil {
			cfg.Strategy.RSIThreshold = threshold
		}
	}
	if v := os.Getenv("SMA_PERIOD"); v != "" {
		var period int
		if _, err := fmt.Sscanf(v, "%d", &period); err == nil {
			cfg.Strategy.SMAPeriod = period
		}
	}
	if v := os.Getenv("INITIAL_CAPITAL"); v != "" {
		var capital float64
		if _, err := fmt.Sscanf(v, "%f", &capital); err == nil {
			cfg.Strategy.InitialCapital = capital
		}
	}
	if v := os.Getenv("BARS_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("BARS_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_BACKTEST"); v != "" {
		cfg.Schedule.BacktestCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Strategy.StartDate == "" {
		cfg.Strategy.StartDate = "2021-01-01"
	}
	if cfg.Strategy.DailyInterval == "" {
		cfg.Strategy.DailyInterval = "1d"
	}
	if cfg.Strategy.WeeklyInterval == "" {
		cfg.Strategy.WeeklyInterval = "1wk"
	}
	if cfg.Strategy.RSIThreshold == 0 {
		cfg.Strategy.RSIThreshold = 60
	}
	if cfg.Strategy.RSIPeriod == 0 {
		cfg.Strategy.RSIPeriod = 14
	}
	if cfg.Strategy.SMAPeriod == 0 {
		cfg.Strategy.SMAPeriod = 21
	}
	if cfg.Strategy.InitialCapital == 0 {
		cfg.Strategy.InitialCapital = 100000
	}
	if cfg.Schedule.BacktestCron == "" {
		cfg.Schedule.BacktestCron = "0 0 18 * * 1-5"
	}

	return cfg, nil
}

// Validate checks that all required strategy fields are set and sane.
func (c *Config) Validate() error {
	if c.Strategy.Symbol == "" {
		return fmt.Errorf("strategy.symbol is required")
	}
	if c.Strategy.InitialCapital <= 0 {
		return fmt.Errorf("strategy.initial_capital must be positive")
	}
	if c.Strategy.RSIThreshold < 0 || c.Strategy.RSIThreshold > 100 {
		return fmt.Errorf("strategy.rsi_threshold must be between 0 and 100")
	}
	if c.Strategy.SMAPeriod < 1 {
		return fmt.Errorf("strategy.sma_period must be at least 1")
	}
	if _, _, err := c.DateRange(); err != nil {
		return err
	}
	return nil
}

// ValidateWatch checks the additional fields required for watch mode.
func (c *Config) ValidateWatch() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required in watch mode")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required in watch mode")
	}
	return nil
}

// DateRange parses the configured date range. An empty end date means today.
func (c *Config) DateRange() (start, end time.Time, err error) {
	start, err = time.Parse("2006-01-02", c.Strategy.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("strategy.start_date: %w", err)
	}
	if c.Strategy.EndDate == "" {
		end = time.Now().Truncate(24 * time.Hour)
	} else {
		end, err = time.Parse("2006-01-02", c.Strategy.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("strategy.end_date: %w", err)
		}
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("strategy.end_date must be after start_date")
	}
	return start, end, nil
}
