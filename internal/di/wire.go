//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"TrendScope/internal/app"
	"TrendScope/internal/config"
	"TrendScope/internal/pipeline"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(ctx context.Context, cfg *config.Config) (*app.App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Analysis
		ProvideLoader,
		ProvideEngine,
		ProvideKinds,
		ProvideRunner,

		// Telegram bot
		ProvideNotifier,
		ProvideScheduler,

		// HTTP
		ProvideHandler,
		ProvideServer,

		ProvideApp,
	)
	return &app.App{}, nil, nil
}

// InitializeRunner wires a Runner for one-shot command line runs.
func InitializeRunner(cfg *config.Config) (*pipeline.Runner, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideLoader,
		ProvideEngine,
		ProvideKinds,
		ProvideRunner,
	)
	return &pipeline.Runner{}, nil, nil
}
