package di

import (
	"context"
	"fmt"

	"TrendScope/internal/app"
	"TrendScope/internal/calculator"
	"TrendScope/internal/collector"
	"TrendScope/internal/config"
	"TrendScope/internal/logger"
	"TrendScope/internal/metrics"
	"TrendScope/internal/notifier"
	"TrendScope/internal/pipeline"
	"TrendScope/internal/scheduler"
	"TrendScope/internal/server"
	"TrendScope/internal/store"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideLoader selects the market data source. The cleanup closes the
// SQLite store when that source is used.
func ProvideLoader(cfg *config.Config, log *logger.Logger) (collector.Loader, func(), error) {
	ds := cfg.DataSource
	var loader collector.Loader
	cleanup := func() {}

	switch ds.Type {
	case config.SourceREST:
		loader = collector.NewRESTLoader(ds.BaseURL, ds.APIKey, cfg.Proxy, ds.Timeout)
	case config.SourceCSV:
		loader = collector.NewCSVLoader(ds.CSVDir)
	case config.SourceSQLite:
		s, err := store.NewSQLiteStore(ds.SQLitePath, log)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite store: %w", err)
		}
		loader = s
		cleanup = func() {
			if err := s.Close(); err != nil {
				log.Warn("close sqlite store", logger.Error(err))
			}
		}
	case config.SourceYahoo, "":
		loader = collector.NewYahooLoader(ds.BaseURL, cfg.Proxy, ds.Timeout)
	default:
		return nil, nil, fmt.Errorf("unknown data source %q", ds.Type)
	}

	log.Info("data source selected", logger.String("source", loader.Name()))
	return loader, cleanup, nil
}

// ProvideEngine creates the indicator engine.
func ProvideEngine(cfg *config.Config) *calculator.Engine {
	return calculator.NewEngine(cfg.Analysis.AllowPartial)
}

// ProvideKinds parses the configured indicator list.
func ProvideKinds(cfg *config.Config) ([]calculator.Kind, error) {
	kinds, err := calculator.ParseKinds(cfg.Analysis.Indicators)
	if err != nil {
		return nil, fmt.Errorf("analysis.indicators: %w", err)
	}
	return kinds, nil
}

// ProvideRunner creates the analysis runner.
func ProvideRunner(loader collector.Loader, engine *calculator.Engine, kinds []calculator.Kind, rec *metrics.Recorder, log *logger.Logger) *pipeline.Runner {
	return pipeline.NewRunner(loader, engine, kinds, rec, log)
}

// ProvideNotifier creates the Telegram notifier, or nil when the bot is disabled.
func ProvideNotifier(cfg *config.Config, log *logger.Logger) *notifier.TelegramNotifier {
	if !cfg.Telegram.Enabled {
		return nil
	}
	return notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
}

// ProvideScheduler creates the report scheduler, or nil without a notifier.
func ProvideScheduler(ctx context.Context, cfg *config.Config, runner *pipeline.Runner, tn *notifier.TelegramNotifier, log *logger.Logger) (*scheduler.Scheduler, error) {
	if tn == nil {
		return nil, nil
	}
	sched := scheduler.NewScheduler(ctx, runner, tn, scheduler.Defaults{
		Ticker:       cfg.Schedule.Ticker,
		Horizon:      cfg.Analysis.DefaultHorizon,
		LookbackDays: cfg.Analysis.LookbackDays,
	}, log)
	if err := sched.Register(cfg.Schedule.ReportCron); err != nil {
		return nil, err
	}
	return sched, nil
}

// ProvideHandler creates the analysis API handler.
func ProvideHandler(cfg *config.Config, runner *pipeline.Runner, loader collector.Loader, log *logger.Logger) *server.AnalysisHandler {
	return server.NewAnalysisHandler(runner, server.Defaults{
		Ticker:       cfg.Analysis.DefaultTicker,
		Horizon:      cfg.Analysis.DefaultHorizon,
		LookbackDays: cfg.Analysis.LookbackDays,
	}, loader.Name(), log)
}

// ProvideServer creates the HTTP server.
func ProvideServer(cfg *config.Config, handler *server.AnalysisHandler, rec *metrics.Recorder, log *logger.Logger) *server.Server {
	return server.NewServer(handler, rec, log,
		server.WithAddr(cfg.Server.Addr),
		server.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	)
}

// ProvideApp assembles the application.
func ProvideApp(cfg *config.Config, log *logger.Logger, srv *server.Server, sched *scheduler.Scheduler, tn *notifier.TelegramNotifier) *app.App {
	return app.New(cfg, log, srv, sched, tn)
}
