package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"TrendScope/internal/di"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the Telegram report bot",
	Long: `Serve the analysis API on server.addr:

  GET /api/analysis?ticker=AAPL&start=2023-01-01&end=2024-01-01&horizon=30
  GET /api/indicators
  GET /healthz
  GET /metrics

When telegram is enabled, a report for schedule.ticker is sent on
schedule.report_cron and /analyze commands are answered.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := di.InitializeApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	return a.Run(ctx)
}
