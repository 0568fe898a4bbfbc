package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"TrendScope/internal/di"
	"TrendScope/internal/pipeline"
	"TrendScope/internal/render"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [TICKER]",
	Short: "Run one analysis and print the result",
	Long: `Fetch daily bars, fit the trend, compute the indicators and print the
signal, forecast and recent data as tables.

Example:
  trendscope analyze AAPL --start 2023-01-01 --end 2024-01-01 --horizon 14
  trendscope analyze BBCA.JK --source sqlite --xlsx out/bbca.xlsx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

var (
	anStart   string
	anEnd     string
	anHorizon int
	anSource  string
	anXLSX    string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&anStart, "start", "", "first day, YYYY-MM-DD (default: lookback_days before --end)")
	analyzeCmd.Flags().StringVar(&anEnd, "end", "", "day after the last bar, YYYY-MM-DD (default: tomorrow)")
	analyzeCmd.Flags().IntVar(&anHorizon, "horizon", 0, "forecast days, 1-90 (default: analysis.default_horizon)")
	analyzeCmd.Flags().StringVar(&anSource, "source", "", "data source: yahoo, rest, csv or sqlite (default: data_source.type)")
	analyzeCmd.Flags().StringVar(&anXLSX, "xlsx", "", "also write the run to this xlsx workbook")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Tables go to stdout.
	if cfg.Log.Output == "stdout" {
		cfg.Log.Output = "stderr"
	}
	if anSource != "" {
		cfg.DataSource.Type = anSource
	}

	ticker := cfg.Analysis.DefaultTicker
	if len(args) > 0 {
		ticker = args[0]
	}
	horizon := cfg.Analysis.DefaultHorizon
	if cmd.Flags().Changed("horizon") {
		horizon = anHorizon
	}
	start, end, err := dateRange(anStart, anEnd, cfg.Analysis.LookbackDays)
	if err != nil {
		return err
	}

	runner, cleanup, err := di.InitializeRunner(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := runner.Run(cmd.Context(), pipeline.Request{
		Ticker:  ticker,
		Start:   start,
		End:     end,
		Horizon: horizon,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, pipeline.UserMessage(err))
		return err
	}

	render.All(cmd.OutOrStdout(), res)

	if anXLSX != "" {
		if err := render.WriteWorkbook(res, anXLSX); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nWorkbook written to %s\n", anXLSX)
	}
	return nil
}
