package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScope/internal/calculator"
	"TrendScope/internal/collector"
	"TrendScope/internal/logger"
	"TrendScope/internal/metrics"
	"TrendScope/internal/model"
)

var (
	start = model.Date(2024, time.January, 1)
	end   = model.Date(2024, time.June, 1)
)

func makeSeries(ticker string, closes []float64) model.PriceSeries {
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{Date: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 100}
	}
	return model.PriceSeries{Ticker: ticker, Bars: bars}
}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func rising(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func newRunner(loader collector.Loader) *Runner {
	return NewRunner(loader, calculator.NewEngine(true), calculator.AllKinds(),
		metrics.NewWithRegistry(prometheus.NewRegistry()), logger.Nop())
}

func req(ticker string, horizon int) Request {
	return Request{Ticker: ticker, Start: start, End: end, Horizon: horizon}
}

func TestRun_FlatSeries(t *testing.T) {
	loader := collector.NewStaticLoader(makeSeries("FLAT", flat(30, 100)))
	res, err := newRunner(loader).Run(context.Background(), req("flat", 5))
	require.NoError(t, err)

	assert.Equal(t, "FLAT", res.Request.Ticker)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "static", res.Source)
	assert.Equal(t, model.SignalHold, res.Decision.Signal)
	assert.InDelta(t, 100.0, res.Decision.SMAFast, 1e-9)
	assert.InDelta(t, 100.0, res.Decision.SMASlow, 1e-9)
	assert.InDelta(t, 50.0, res.Decision.RSI, 1e-9)
	require.Len(t, res.Forecast, 5)
	for _, p := range res.Forecast {
		assert.InDelta(t, 100.0, p.PredictedClose, 1e-9)
	}

	// 30 bars is too short for MACD; partial mode leaves it undefined.
	macd, ok := res.Frame.Column(model.ColMACD)
	require.True(t, ok)
	assert.Equal(t, -1, macd.FirstValid())
}

func TestRun_RisingSeries(t *testing.T) {
	loader := collector.NewStaticLoader(makeSeries("UP", rising(60)))
	res, err := newRunner(loader).Run(context.Background(), req("UP", 30))
	require.NoError(t, err)

	assert.Equal(t, model.SignalHold, res.Decision.Signal)
	assert.Greater(t, res.Decision.SMAFast, res.Decision.SMASlow)
	assert.InDelta(t, 100.0, res.Decision.RSI, 1e-9)
	assert.Equal(t, 60.0, res.Decision.Close)

	require.Len(t, res.Forecast, 30)
	last := res.Series.Last().Date
	for i, p := range res.Forecast {
		assert.Equal(t, last.AddDate(0, 0, i+1), p.Date)
	}
	assert.InDelta(t, 1.0, res.Trend.Slope, 1e-9)
	assert.Len(t, res.Charts.Recent.Rows, 10)
}

func TestRun_InvalidHorizonBeforeFetch(t *testing.T) {
	for _, h := range []int{0, 91, -1} {
		loader := collector.NewStaticLoader(makeSeries("UP", rising(60)))
		_, err := newRunner(loader).Run(context.Background(), req("UP", h))
		assert.ErrorIs(t, err, model.ErrInvalidHorizon, "horizon %d", h)
		assert.Zero(t, loader.Calls, "horizon %d must not fetch", h)
	}
}

func TestRun_BoundaryHorizons(t *testing.T) {
	for _, h := range []int{1, 90} {
		loader := collector.NewStaticLoader(makeSeries("UP", rising(60)))
		res, err := newRunner(loader).Run(context.Background(), req("UP", h))
		require.NoError(t, err, "horizon %d", h)
		assert.Len(t, res.Forecast, h)
	}
}

func TestRun_InvalidInput(t *testing.T) {
	tests := []Request{
		{Ticker: "", Start: start, End: end, Horizon: 10},
		{Ticker: "AAPL", Start: end, End: start, Horizon: 10},
		{Ticker: "AAPL", Start: start, End: start, Horizon: 10},
		{Ticker: "AAPL", End: end, Horizon: 10},
	}
	for i, r := range tests {
		loader := collector.NewStaticLoader()
		_, err := newRunner(loader).Run(context.Background(), r)
		assert.ErrorIs(t, err, model.ErrInvalidInput, "case %d", i)
		assert.Zero(t, loader.Calls)
	}
}

func TestRun_NoData(t *testing.T) {
	loader := collector.NewStaticLoader()
	_, err := newRunner(loader).Run(context.Background(), req("NONE", 10))
	assert.ErrorIs(t, err, model.ErrNoData)
	assert.Equal(t, 1, loader.Calls)
}

func TestRun_InsufficientData(t *testing.T) {
	loader := collector.NewStaticLoader(makeSeries("SHORT", rising(19)))
	_, err := newRunner(loader).Run(context.Background(), req("SHORT", 10))
	assert.ErrorIs(t, err, model.ErrInsufficientData)
}

func TestRun_StrictEngineNeedsFullWarmUp(t *testing.T) {
	loader := collector.NewStaticLoader(makeSeries("FLAT", flat(30, 100)))
	r := NewRunner(loader, calculator.NewEngine(false), calculator.AllKinds(),
		metrics.NewWithRegistry(prometheus.NewRegistry()), logger.Nop())
	_, err := r.Run(context.Background(), req("FLAT", 5))
	assert.ErrorIs(t, err, model.ErrInsufficientData)
}

func TestRun_FetchErrors(t *testing.T) {
	loader := collector.NewStaticLoader()
	loader.Err = errors.New("connection reset")
	_, err := newRunner(loader).Run(context.Background(), req("AAPL", 10))
	assert.ErrorIs(t, err, model.ErrFetch)

	loader.Err = model.ErrNoData
	_, err = newRunner(loader).Run(context.Background(), req("AAPL", 10))
	assert.ErrorIs(t, err, model.ErrNoData)
	assert.False(t, errors.Is(err, model.ErrFetch))
}

func TestRun_Independent(t *testing.T) {
	loader := collector.NewStaticLoader(makeSeries("UP", rising(60)), makeSeries("FLAT", flat(30, 100)))
	r := newRunner(loader)

	a, err := r.Run(context.Background(), req("UP", 5))
	require.NoError(t, err)
	_, err = r.Run(context.Background(), req("FLAT", 5))
	require.NoError(t, err)
	b, err := r.Run(context.Background(), req("UP", 5))
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Decision, b.Decision)
	assert.Equal(t, a.Frame.Columns, b.Frame.Columns)
}

func TestRunner_AlwaysComputesSignalInputs(t *testing.T) {
	r := NewRunner(collector.NewStaticLoader(), calculator.NewEngine(true), []calculator.Kind{calculator.KindMACD},
		metrics.NewWithRegistry(prometheus.NewRegistry()), logger.Nop())
	assert.Equal(t, []calculator.Kind{calculator.KindSMA10, calculator.KindSMA20, calculator.KindRSI14, calculator.KindMACD}, r.Kinds())
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Contains(t, UserMessage(model.ErrNoData), "ticker symbol")
	assert.Contains(t, UserMessage(model.ErrInvalidHorizon), "between 1 and 90")
	assert.Contains(t, UserMessage(errors.New("boom")), "boom")
}
