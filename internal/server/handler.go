package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"TrendScope/internal/calculator"
	"TrendScope/internal/forecast"
	"TrendScope/internal/logger"
	"TrendScope/internal/model"
	"TrendScope/internal/pipeline"
)

// Handler registers routes on an echo instance.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}

// Analyzer runs one analysis.
type Analyzer interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
	Kinds() []calculator.Kind
}

// Defaults fill the query parameters a client leaves out.
type Defaults struct {
	Ticker       string
	Horizon      int
	LookbackDays int
}

// AnalysisHandler serves the analysis API.
type AnalysisHandler struct {
	analyzer Analyzer
	defaults Defaults
	source   string
	log      *logger.Logger
	now      func() time.Time
}

// NewAnalysisHandler creates an AnalysisHandler. source is reported by /healthz.
func NewAnalysisHandler(analyzer Analyzer, defaults Defaults, source string, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		defaults: defaults,
		source:   source,
		log:      log,
		now:      time.Now,
	}
}

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/analysis", h.Analysis)
	api.GET("/indicators", h.Indicators)
	e.GET("/healthz", h.Health)
}

// summaryView is the view=summary payload: the run without chart data.
type summaryView struct {
	RunID      string                `json:"run_id"`
	Request    pipeline.Request      `json:"request"`
	Source     string                `json:"source"`
	Trend      forecast.Model        `json:"trend"`
	Forecast   []model.ForecastPoint `json:"forecast"`
	Decision   model.Decision        `json:"decision"`
	ComputedAt time.Time             `json:"computed_at"`
}

// Analysis handles GET /api/analysis.
func (h *AnalysisHandler) Analysis(c echo.Context) error {
	var q AnalysisQuery
	if errs := ReadAndValidateRequest(c, &q); errs != nil {
		return BadRequestResponse(c, errs)
	}

	req, err := h.request(q)
	if err != nil {
		return AppErrorResponse(c, err)
	}

	res, err := h.analyzer.Run(c.Request().Context(), req)
	if err != nil {
		return AppErrorResponse(c, err)
	}

	if q.View == "summary" {
		return SuccessResponse(c, summaryView{
			RunID:      res.RunID,
			Request:    res.Request,
			Source:     res.Source,
			Trend:      res.Trend,
			Forecast:   res.Forecast,
			Decision:   res.Decision,
			ComputedAt: res.ComputedAt,
		})
	}
	return SuccessResponse(c, res)
}

// request turns q into a run request. The range defaults to the lookback
// window ending tomorrow so that today's bar is included.
func (h *AnalysisHandler) request(q AnalysisQuery) (pipeline.Request, error) {
	req := pipeline.Request{Ticker: strings.TrimSpace(q.Ticker), Horizon: h.defaults.Horizon}
	if req.Ticker == "" {
		req.Ticker = h.defaults.Ticker
	}
	if q.Horizon != "" {
		n, err := strconv.Atoi(q.Horizon)
		if err != nil {
			return req, fmt.Errorf("%w: horizon %q is not a whole number of days", model.ErrInvalidHorizon, q.Horizon)
		}
		req.Horizon = n
	}

	req.End = model.TruncateDay(h.now()).AddDate(0, 0, 1)
	if q.End != "" {
		end, err := time.Parse(model.DateLayout, q.End)
		if err != nil {
			return req, fmt.Errorf("%w: end: %w", model.ErrInvalidInput, err)
		}
		req.End = end
	}
	req.Start = req.End.AddDate(0, 0, -h.defaults.LookbackDays)
	if q.Start != "" {
		start, err := time.Parse(model.DateLayout, q.Start)
		if err != nil {
			return req, fmt.Errorf("%w: start: %w", model.ErrInvalidInput, err)
		}
		req.Start = start
	}
	return req, nil
}

// Indicators handles GET /api/indicators.
func (h *AnalysisHandler) Indicators(c echo.Context) error {
	enabled := make(map[calculator.Kind]bool)
	for _, k := range h.analyzer.Kinds() {
		enabled[k] = true
	}
	kinds := calculator.AllKinds()
	out := make([]IndicatorInfo, 0, len(kinds))
	for _, k := range kinds {
		cols := calculator.Columns(k)
		names := make([]string, len(cols))
		for i, col := range cols {
			names[i] = string(col)
		}
		out = append(out, IndicatorInfo{
			Kind:     k,
			Columns:  names,
			FirstRow: calculator.Lookback(k),
			Enabled:  enabled[k],
		})
	}
	return SuccessResponse(c, out)
}

// Health handles GET /healthz.
func (h *AnalysisHandler) Health(c echo.Context) error {
	return SuccessResponse(c, HealthStatus{Status: "ok", Source: h.source})
}
