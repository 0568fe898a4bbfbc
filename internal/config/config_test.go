package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, SourceYahoo, cfg.DataSource.Type)
	assert.Equal(t, 30*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, "BBCA.JK", cfg.Analysis.DefaultTicker)
	assert.Equal(t, 730, cfg.Analysis.LookbackDays)
	assert.Equal(t, 30, cfg.Analysis.DefaultHorizon)
	assert.True(t, cfg.Analysis.AllowPartial)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "BBCA.JK", cfg.Schedule.Ticker)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
data_source:
  type: csv
  csv_dir: /tmp/bars
  timeout: 5s
analysis:
  default_ticker: AAPL
  default_horizon: 7
  indicators: [sma_10, macd]
  allow_partial: false
schedule:
  ticker: MSFT
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, SourceCSV, cfg.DataSource.Type)
	assert.Equal(t, "/tmp/bars", cfg.DataSource.CSVDir)
	assert.Equal(t, 5*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, "AAPL", cfg.Analysis.DefaultTicker)
	assert.Equal(t, 7, cfg.Analysis.DefaultHorizon)
	assert.Equal(t, []string{"sma_10", "macd"}, cfg.Analysis.Indicators)
	assert.False(t, cfg.Analysis.AllowPartial)
	assert.Equal(t, "MSFT", cfg.Schedule.Ticker)
	assert.Equal(t, "info", cfg.Log.Level, "untouched sections keep defaults")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRENDSCOPE_TICKER", "BTC-USD")
	t.Setenv("TRENDSCOPE_HORIZON", "14")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("HTTPS_PROXY", "http://proxy:3128")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "BTC-USD", cfg.Analysis.DefaultTicker)
	assert.Equal(t, 14, cfg.Analysis.DefaultHorizon)
	assert.True(t, cfg.Telegram.Enabled)
	assert.Equal(t, "http://proxy:3128", cfg.Proxy)
}

func TestLoad_DotEnv(t *testing.T) {
	env := writeFile(t, ".env", "TRENDSCOPE_DATA_SOURCE=sqlite\nTRENDSCOPE_SQLITE_PATH=/tmp/x.db\n")
	t.Cleanup(func() {
		os.Unsetenv("TRENDSCOPE_DATA_SOURCE")
		os.Unsetenv("TRENDSCOPE_SQLITE_PATH")
	})

	cfg, err := Load("", env, filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, SourceSQLite, cfg.DataSource.Type)
	assert.Equal(t, "/tmp/x.db", cfg.DataSource.SQLitePath)
}

func TestLoad_BadEnvNumber(t *testing.T) {
	t.Setenv("TRENDSCOPE_HORIZON", "soon")
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown source", func(c *Config) { c.DataSource.Type = "ftp" }},
		{"rest without url", func(c *Config) { c.DataSource.Type = SourceREST }},
		{"horizon too large", func(c *Config) { c.Analysis.DefaultHorizon = 91 }},
		{"horizon zero", func(c *Config) { c.Analysis.DefaultHorizon = 0 }},
		{"telegram without token", func(c *Config) { c.Telegram.Enabled = true; c.Telegram.ChatID = "1" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
