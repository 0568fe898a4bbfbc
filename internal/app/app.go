// Package app runs the long-lived service: the HTTP API, the scheduled
// report and the Telegram command loop.
package app

import (
	"context"
	"fmt"

	"TrendScope/internal/config"
	"TrendScope/internal/logger"
	"TrendScope/internal/notifier"
	"TrendScope/internal/scheduler"
	"TrendScope/internal/server"
)

// App encapsulates the service lifecycle. Scheduler and Notifier are nil
// when the Telegram bot is disabled.
type App struct {
	cfg       *config.Config
	log       *logger.Logger
	server    *server.Server
	scheduler *scheduler.Scheduler
	notifier  *notifier.TelegramNotifier
}

// New creates an App.
func New(cfg *config.Config, log *logger.Logger, srv *server.Server, sched *scheduler.Scheduler, tn *notifier.TelegramNotifier) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		server:    srv,
		scheduler: sched,
		notifier:  tn,
	}
}

// BotEnabled reports whether the scheduled report and chat commands run.
func (a *App) BotEnabled() bool {
	return a.scheduler != nil && a.notifier != nil
}

// Run starts every component and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.server.Start(); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	if a.BotEnabled() {
		a.scheduler.Start()
		defer a.scheduler.Stop()

		go a.notifier.StartPolling(ctx, a.scheduler.HandleCommand)
		a.log.Info("telegram polling started")

		if a.cfg.Schedule.RunOnStart {
			a.log.Info("run_on_start enabled, sending report now")
			go a.scheduler.RunReportNow()
		}
	} else {
		a.log.Info("telegram bot disabled")
	}

	a.log.Info("TrendScope is running",
		logger.String("addr", a.cfg.Server.Addr),
		logger.String("source", a.cfg.DataSource.Type))

	<-ctx.Done()
	a.log.Info("shutdown signal received, stopping")

	if err := a.server.Stop(context.Background()); err != nil {
		return err
	}
	a.log.Info("TrendScope stopped")
	return nil
}
