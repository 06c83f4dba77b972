package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML accepts values like "1.5s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Provider struct {
		BaseURL string `yaml:"base_url"`
		Proxy   string `yaml:"proxy"`
	} `yaml:"provider"`
	Portfolio struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"portfolio"`
	Watchlist []string `yaml:"watchlist"`
	Database  struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		EvaluateCron string `yaml:"evaluate_cron"`
		ScreenerCron string `yaml:"screener_cron"`
	} `yaml:"schedule"`
	Engine struct {
		GrowthRate          float64  `yaml:"growth_rate"`
		BuyDiscount         float64  `yaml:"buy_discount"`
		HistoryDays         int      `yaml:"history_days"`
		ForecastWindow      int      `yaml:"forecast_window"`
		ForecastHorizonDays int      `yaml:"forecast_horizon_days"`
		PacingInterval      Duration `yaml:"pacing_interval"`
		MomentumWindowDays  int      `yaml:"momentum_window_days"`
		MomentumThreshold   float64  `yaml:"momentum_threshold"`
	} `yaml:"engine"`
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
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Provider.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("PORTFOLIO_STATE_FILE"); v != "" {
		cfg.Portfolio.StateFile = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist = nil
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				cfg.Watchlist = append(cfg.Watchlist, strings.ToUpper(t))
			}
		}
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Portfolio.StateFile == "" {
		cfg.Portfolio.StateFile = "data/portfolio.json"
	}
	if cfg.Schedule.EvaluateCron == "" {
		cfg.Schedule.EvaluateCron = "0 0 18 * * 1-5"
	}
	if cfg.Schedule.ScreenerCron == "" {
		cfg.Schedule.ScreenerCron = "0 30 18 * * 1-5"
	}
	e := &cfg.Engine
	if e.GrowthRate == 0 {
		e.GrowthRate = 0.08
	}
	if e.BuyDiscount == 0 {
		e.BuyDiscount = 0.05
	}
	if e.HistoryDays == 0 {
		e.HistoryDays = 365
	}
	if e.ForecastWindow == 0 {
		e.ForecastWindow = 90
	}
	if e.ForecastHorizonDays == 0 {
		e.ForecastHorizonDays = 30
	}
	if e.PacingInterval == 0 {
		e.PacingInterval = Duration(1500 * time.Millisecond)
	}
	if e.MomentumWindowDays == 0 {
		e.MomentumWindowDays = 7
	}
	if e.MomentumThreshold == 0 {
		e.MomentumThreshold = 2.0
	}
}

// Validate checks that all required fields are consistent.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Engine.GrowthRate <= -1 {
		return fmt.Errorf("engine.growth_rate must be greater than -1")
	}
	if c.Engine.BuyDiscount < 0 || c.Engine.BuyDiscount >= 1 {
		return fmt.Errorf("engine.buy_discount must be in [0, 1)")
	}
	if c.Engine.PacingInterval < 0 {
		return fmt.Errorf("engine.pacing_interval must not be negative")
	}
	if c.Engine.HistoryDays <= 0 || c.Engine.MomentumWindowDays <= 0 {
		return fmt.Errorf("engine windows must be positive")
	}
	if c.Engine.ForecastWindow < 2 {
		return fmt.Errorf("engine.forecast_window must be at least 2")
	}
	for _, t := range c.Watchlist {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("watchlist contains an empty ticker")
		}
	}
	return nil
}
