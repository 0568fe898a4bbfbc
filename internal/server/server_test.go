package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScope/internal/calculator"
	"TrendScope/internal/collector"
	"TrendScope/internal/logger"
	"TrendScope/internal/metrics"
	"TrendScope/internal/model"
	"TrendScope/internal/pipeline"
)

var day0 = model.Date(2024, time.January, 1)

func series(ticker string, n int) model.PriceSeries {
	bars := make([]model.Bar, n)
	for i := range bars {
		c := 100 + float64(i%7) - float64(i%3)
		bars[i] = model.Bar{Date: day0.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	return model.PriceSeries{Ticker: ticker, Bars: bars}
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T, loader *collector.StaticLoader) *Server {
	t.Helper()
	rec := metrics.NewWithRegistry(prometheus.NewRegistry())
	runner := pipeline.NewRunner(loader, calculator.NewEngine(true), calculator.AllKinds(), rec, logger.Nop())
	h := NewAnalysisHandler(runner, Defaults{Ticker: "BBCA.JK", Horizon: 30, LookbackDays: 60}, loader.Name(), logger.Nop())
	h.now = func() time.Time { return day0.AddDate(0, 0, 59) }
	return NewServer(h, rec, logger.Nop())
}

func get(t *testing.T, s *Server, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestAnalysis_OK(t *testing.T) {
	s := newTestServer(t, collector.NewStaticLoader(series("BBCA.JK", 60)))

	rec, env := get(t, s, "/api/analysis?ticker=bbca.jk&start=2024-01-01&end=2024-06-01&horizon=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusOK, env.Status)

	var data struct {
		RunID    string                     `json:"run_id"`
		Request  pipeline.Request           `json:"request"`
		Forecast []model.ForecastPoint      `json:"forecast"`
		Decision model.Decision             `json:"decision"`
		Charts   map[string]json.RawMessage `json:"charts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.RunID)
	assert.Equal(t, "BBCA.JK", data.Request.Ticker)
	assert.Len(t, data.Forecast, 5)
	assert.Equal(t, model.Date(2024, time.March, 1), data.Forecast[0].Date)
	assert.Contains(t, []model.Signal{model.SignalBuy, model.SignalSell, model.SignalHold}, data.Decision.Signal)
	assert.NotEmpty(t, data.Charts)
}

func TestAnalysis_Defaults(t *testing.T) {
	s := newTestServer(t, collector.NewStaticLoader(series("BBCA.JK", 60)))

	rec, env := get(t, s, "/api/analysis?view=summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotContains(t, data, "charts")

	var req pipeline.Request
	require.NoError(t, json.Unmarshal(data["request"], &req))
	assert.Equal(t, "BBCA.JK", req.Ticker)
	assert.Equal(t, 30, req.Horizon)
	assert.Equal(t, model.Date(2024, time.March, 1), req.End)
	assert.Equal(t, model.Date(2024, time.January, 1), req.Start)

	var points []model.ForecastPoint
	require.NoError(t, json.Unmarshal(data["forecast"], &points))
	assert.Len(t, points, 30)
}

func TestAnalysis_ErrorStatuses(t *testing.T) {
	short := series("SHORT", 10)
	tests := []struct {
		name   string
		target string
		loader func() *collector.StaticLoader
		status int
		kind   model.ErrorKind
	}{
		{"horizon zero", "/api/analysis?ticker=BBCA.JK&horizon=0", nil, http.StatusBadRequest, model.KindInvalidHorizon},
		{"horizon too large", "/api/analysis?ticker=BBCA.JK&horizon=91", nil, http.StatusBadRequest, model.KindInvalidHorizon},
		{"horizon not a number", "/api/analysis?ticker=BBCA.JK&horizon=abc", nil, http.StatusBadRequest, model.KindInvalidHorizon},
		{"end before start", "/api/analysis?ticker=BBCA.JK&start=2024-03-01&end=2024-01-01", nil, http.StatusBadRequest, model.KindInvalidInput},
		{"unknown ticker", "/api/analysis?ticker=NOPE", nil, http.StatusNotFound, model.KindNoData},
		{"short history", "/api/analysis?ticker=SHORT", nil, http.StatusUnprocessableEntity, model.KindInsufficientData},
		{
			"upstream failure", "/api/analysis?ticker=BBCA.JK",
			func() *collector.StaticLoader {
				l := collector.NewStaticLoader()
				l.Err = errors.New("connection reset")
				return l
			},
			http.StatusBadGateway, model.KindFetch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := collector.NewStaticLoader(series("BBCA.JK", 60), short)
			if tt.loader != nil {
				loader = tt.loader()
			}
			s := newTestServer(t, loader)

			rec, env := get(t, s, tt.target)
			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status, env.Status)

			var appErr AppError
			require.NoError(t, json.Unmarshal(env.Data, &appErr))
			assert.Equal(t, string(tt.kind), appErr.Kind)
			assert.NotEmpty(t, appErr.Message)
		})
	}
}

func TestAnalysis_ValidationErrors(t *testing.T) {
	loader := collector.NewStaticLoader(series("BBCA.JK", 60))
	s := newTestServer(t, loader)

	rec, env := get(t, s, "/api/analysis?start=2024/01/01&view=everything")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errs []ValidationError
	require.NoError(t, json.Unmarshal(env.Data, &errs))
	codes := make(map[string]string, len(errs))
	for _, e := range errs {
		codes[e.Field] = e.Code
	}
	assert.Equal(t, "ERR_DATETIME", codes["start"])
	assert.Equal(t, "ERR_ONEOF", codes["view"])
	assert.Zero(t, loader.Calls)
}

func TestIndicators(t *testing.T) {
	s := newTestServer(t, collector.NewStaticLoader())

	rec, env := get(t, s, "/api/indicators")
	require.Equal(t, http.StatusOK, rec.Code)

	var infos []IndicatorInfo
	require.NoError(t, json.Unmarshal(env.Data, &infos))
	require.Len(t, infos, len(calculator.AllKinds()))
	for _, info := range infos {
		assert.True(t, info.Enabled, info.Kind)
		assert.Equal(t, calculator.Lookback(info.Kind), info.FirstRow)
	}
	assert.Equal(t, calculator.KindMACD, infos[3].Kind)
	assert.Equal(t, []string{"MACD", "MACD_signal", "MACD_hist"}, infos[3].Columns)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, collector.NewStaticLoader(series("BBCA.JK", 60)))

	rec, env := get(t, s, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthStatus
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, HealthStatus{Status: "ok", Source: "static"}, health)

	get(t, s, "/api/analysis?ticker=BBCA.JK")
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrec := httptest.NewRecorder()
	s.Echo().ServeHTTP(mrec, req)
	require.Equal(t, http.StatusOK, mrec.Code)
	assert.Contains(t, mrec.Body.String(), "trendscope_runs_total")
	assert.Contains(t, mrec.Body.String(), `trendscope_last_close{ticker="BBCA.JK"}`)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusOf(model.KindInternal))
	appErr := NewAppError(errors.New("nil pointer"))
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Empty(t, appErr.Detail)
}

func TestRecover(t *testing.T) {
	s := NewServer(nil, metrics.NewWithRegistry(prometheus.NewRegistry()), logger.Nop())
	s.Echo().GET("/boom", func(c echo.Context) error { panic("boom") })

	rec, env := get(t, s, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, http.StatusInternalServerError, env.Status)
}
