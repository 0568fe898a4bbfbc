package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"TrendScope/internal/config"
	"TrendScope/internal/model"
)

var (
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "trendscope",
	Short: "Stock trend, indicator and signal dashboard",
	Long: `TrendScope fetches daily bars for a ticker, fits a straight-line trend,
computes technical indicators (SMA, RSI, MACD, Bollinger Bands, Stochastic)
and classifies the latest day as BUY, SELL or HOLD.

Run a one-off analysis with "analyze", or start the HTTP API and the
Telegram report bot with "serve".`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfig, "config file (env CONFIG_PATH)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file loaded before environment overrides")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile, envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// dateRange resolves the --start/--end flags. The end defaults to tomorrow
// so today's bar is included; the start defaults to lookbackDays before it.
func dateRange(start, end string, lookbackDays int) (time.Time, time.Time, error) {
	to := model.TruncateDay(time.Now()).AddDate(0, 0, 1)
	if end != "" {
		t, err := time.Parse(model.DateLayout, end)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--end: %w", err)
		}
		to = t
	}
	from := to.AddDate(0, 0, -lookbackDays)
	if start != "" {
		t, err := time.Parse(model.DateLayout, start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--start: %w", err)
		}
		from = t
	}
	return from, to, nil
}
