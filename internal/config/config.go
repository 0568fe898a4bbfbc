package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Data source types.
const (
	SourceYahoo  = "yahoo"
	SourceREST   = "rest"
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	DataSource DataSourceConfig `yaml:"data_source"`
	Proxy      string           `yaml:"proxy"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Server     ServerConfig     `yaml:"server"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=json console"`
	Output string `yaml:"output" default:"stdout"`
}

type DataSourceConfig struct {
	Type       string        `yaml:"type" default:"yahoo" validate:"oneof=yahoo rest csv sqlite"`
	BaseURL    string        `yaml:"base_url" validate:"omitempty,url"`
	APIKey     string        `yaml:"api_key"`
	CSVDir     string        `yaml:"csv_dir" default:"data/csv"`
	SQLitePath string        `yaml:"sqlite_path" default:"data/trendscope.db"`
	Timeout    time.Duration `yaml:"timeout" default:"30s" validate:"gt=0"`
}

type AnalysisConfig struct {
	DefaultTicker  string   `yaml:"default_ticker" default:"BBCA.JK" validate:"required"`
	LookbackDays   int      `yaml:"lookback_days" default:"730" validate:"gte=1"`
	DefaultHorizon int      `yaml:"default_horizon" default:"30" validate:"gte=1,lte=90"`
	Indicators     []string `yaml:"indicators"`
	AllowPartial   bool     `yaml:"allow_partial" default:"true"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

type ScheduleConfig struct {
	// ReportCron uses six fields, seconds first.
	ReportCron string `yaml:"report_cron" default:"0 0 17 * * 1-5"`
	// Ticker defaults to analysis.default_ticker.
	Ticker string `yaml:"ticker"`
	// RunOnStart sends one report as soon as the bot starts.
	RunOnStart bool `yaml:"run_on_start"`
}

// Load applies, in order: defaults, the YAML file at path (optional), .env
// files (optional) and environment variable overrides.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Schedule.Ticker == "" {
		cfg.Schedule.Ticker = cfg.Analysis.DefaultTicker
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"TRENDSCOPE_LOG_LEVEL":   &c.Log.Level,
		"TRENDSCOPE_LOG_FORMAT":  &c.Log.Format,
		"TRENDSCOPE_DATA_SOURCE": &c.DataSource.Type,
		"TRENDSCOPE_BASE_URL":    &c.DataSource.BaseURL,
		"TRENDSCOPE_API_KEY":     &c.DataSource.APIKey,
		"TRENDSCOPE_CSV_DIR":     &c.DataSource.CSVDir,
		"TRENDSCOPE_SQLITE_PATH": &c.DataSource.SQLitePath,
		"TRENDSCOPE_TICKER":      &c.Analysis.DefaultTicker,
		"TRENDSCOPE_ADDR":        &c.Server.Addr,
		"TRENDSCOPE_REPORT_CRON": &c.Schedule.ReportCron,
		"TELEGRAM_BOT_TOKEN":     &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":       &c.Telegram.ChatID,
		"HTTPS_PROXY":            &c.Proxy,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("TRENDSCOPE_HORIZON"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TRENDSCOPE_HORIZON: %w", err)
		}
		c.Analysis.DefaultHorizon = n
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RUN_ON_START: %w", err)
		}
		c.Schedule.RunOnStart = b
	}
	if v := os.Getenv("TRENDSCOPE_ALLOW_PARTIAL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRENDSCOPE_ALLOW_PARTIAL: %w", err)
		}
		c.Analysis.AllowPartial = b
	}
	// A token in the environment turns the bot on.
	if os.Getenv("TELEGRAM_BOT_TOKEN") != "" && c.Telegram.ChatID != "" {
		c.Telegram.Enabled = true
	}
	return nil
}

// Validate checks field ranges and cross-field requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.DataSource.Type == SourceREST && c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required for the rest source")
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required")
		}
	}
	return nil
}

// Lookback returns the default analysis window ending at end.
func (c *Config) Lookback(end time.Time) (time.Time, time.Time) {
	return end.AddDate(0, 0, -c.Analysis.LookbackDays), end
}
