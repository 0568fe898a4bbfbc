package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"TrendScope/internal/config"
	"TrendScope/internal/di"
	"TrendScope/internal/logger"
	"TrendScope/internal/model"
	"TrendScope/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import TICKER [TICKER...]",
	Short: "Copy daily bars into the local SQLite store",
	Long: `Fetch daily bars from a remote or file source and save them into
data_source.sqlite_path, so that later runs can use --source sqlite offline.

Example:
  trendscope import AAPL MSFT --start 2020-01-01
  trendscope import BBCA.JK --from csv
  trendscope import --list`,
	RunE: runImport,
}

var (
	imFrom  string
	imStart string
	imEnd   string
	imDB    string
	imList  bool
)

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&imFrom, "from", config.SourceYahoo, "source to copy from: yahoo, rest or csv")
	importCmd.Flags().StringVar(&imStart, "start", "", "first day, YYYY-MM-DD (default: lookback_days before --end)")
	importCmd.Flags().StringVar(&imEnd, "end", "", "day after the last bar, YYYY-MM-DD (default: tomorrow)")
	importCmd.Flags().StringVar(&imDB, "db", "", "SQLite database (default: data_source.sqlite_path)")
	importCmd.Flags().BoolVar(&imList, "list", false, "list the stored tickers and exit")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if imDB != "" {
		cfg.DataSource.SQLitePath = imDB
	}

	log, err := di.ProvideLogger(cfg)
	if err != nil {
		return err
	}
	db, err := store.NewSQLiteStore(cfg.DataSource.SQLitePath, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if imList {
		return listTickers(cmd, db)
	}
	if len(args) == 0 {
		return fmt.Errorf("at least one ticker is required")
	}
	if imFrom == config.SourceSQLite {
		return fmt.Errorf("--from sqlite would copy the store onto itself")
	}

	start, end, err := dateRange(imStart, imEnd, cfg.Analysis.LookbackDays)
	if err != nil {
		return err
	}

	cfg.DataSource.Type = imFrom
	loader, cleanup, err := di.ProvideLoader(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	failed := 0
	for _, arg := range args {
		ticker := strings.ToUpper(strings.TrimSpace(arg))
		series, err := loader.Fetch(cmd.Context(), ticker, start, end)
		if err != nil {
			log.Error("fetch failed", logger.String("ticker", ticker), logger.Error(err))
			fmt.Fprintf(os.Stderr, "%s: %v\n", ticker, err)
			failed++
			continue
		}
		n, err := db.SaveBars(cmd.Context(), series, loader.Name())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bars saved (%s to %s)\n", ticker, n,
			start.Format(model.DateLayout), end.AddDate(0, 0, -1).Format(model.DateLayout))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d tickers failed", failed, len(args))
	}
	return nil
}

func listTickers(cmd *cobra.Command, db *store.SQLiteStore) error {
	counts, err := db.Tickers(cmd.Context())
	if err != nil {
		return err
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Ticker", "Bars"})
	for _, name := range names {
		t.AppendRow(table.Row{name, counts[name]})
	}
	t.Render()
	return nil
}
