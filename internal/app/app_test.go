package app

import (
	"context"
	"testing"
	"time"

	"github.com/creasty/defaults"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScope/internal/config"
	"TrendScope/internal/logger"
	"TrendScope/internal/metrics"
	"TrendScope/internal/server"
)

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := &config.Config{}
	require.NoError(t, defaults.Set(cfg))
	cfg.Server.Addr = "127.0.0.1:0"

	srv := server.NewServer(nil, metrics.NewWithRegistry(prometheus.NewRegistry()), logger.Nop(),
		server.WithAddr(cfg.Server.Addr))
	a := New(cfg, logger.Nop(), srv, nil, nil)
	assert.False(t, a.BotEnabled())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
