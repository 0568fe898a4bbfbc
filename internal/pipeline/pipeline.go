package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	"TrendScope/internal/calculator"
	"TrendScope/internal/chart"
	"TrendScope/internal/collector"
	"TrendScope/internal/forecast"
	"TrendScope/internal/logger"
	"TrendScope/internal/metrics"
	"TrendScope/internal/model"
	"TrendScope/internal/strategy"
)

// Result is everything one run produced. It is never mutated after Run
// returns.
type Result struct {
	RunID      string                `json:"run_id"`
	Request    Request               `json:"request"`
	Source     string                `json:"source"`
	Series     model.PriceSeries     `json:"-"`
	Frame      *model.IndicatorFrame `json:"-"`
	Trend      forecast.Model        `json:"trend"`
	Forecast   []model.ForecastPoint `json:"forecast"`
	Decision   model.Decision        `json:"decision"`
	Charts     chart.Set             `json:"charts"`
	ComputedAt time.Time             `json:"computed_at"`
}

// Runner executes analysis runs. A Runner holds no per-run state and may be
// shared by concurrent callers.
type Runner struct {
	loader   collector.Loader
	engine   *calculator.Engine
	kinds    []calculator.Kind
	validate *validator.Validate
	metrics  *metrics.Recorder
	log      *logger.Logger
	now      func() time.Time
}

// NewRunner creates a Runner. The signal inputs are always computed in
// addition to kinds.
func NewRunner(loader collector.Loader, engine *calculator.Engine, kinds []calculator.Kind, rec *metrics.Recorder, log *logger.Logger) *Runner {
	return &Runner{
		loader:   loader,
		engine:   engine,
		kinds:    calculator.Canonical(append(append([]calculator.Kind(nil), kinds...), calculator.SignalKinds()...)),
		validate: NewValidator(),
		metrics:  rec,
		log:      log,
		now:      time.Now,
	}
}

// Kinds returns the indicators each run computes.
func (r *Runner) Kinds() []calculator.Kind { return r.kinds }

// Run validates req, fetches bars, fits the trend, computes indicators,
// classifies the latest row and assembles the chart data.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	started := r.now()
	runID := ulid.Make().String()
	log := r.log.With(logger.String("run_id", runID))

	res, err := r.run(ctx, runID, req.Normalized(), log)
	if err != nil {
		kind := model.KindOf(err)
		r.metrics.RecordError(string(kind))
		log.Warn("analysis run failed",
			logger.String("ticker", req.Ticker),
			logger.String("kind", string(kind)),
			logger.Error(err))
		return nil, err
	}

	took := r.now().Sub(started)
	r.metrics.RecordRun(string(res.Decision.Signal), took)
	r.metrics.RecordLastClose(res.Request.Ticker, res.Decision.Close)
	log.Info("analysis run finished",
		logger.String("ticker", res.Request.Ticker),
		logger.String("signal", string(res.Decision.Signal)),
		logger.Int("bars", res.Series.Len()),
		logger.Duration("took", took))
	return res, nil
}

func (r *Runner) run(ctx context.Context, runID string, req Request, log *logger.Logger) (*Result, error) {
	if err := Validate(r.validate, req); err != nil {
		return nil, err
	}

	fetchStart := r.now()
	series, err := r.loader.Fetch(ctx, req.Ticker, req.Start, req.End)
	r.metrics.RecordFetch(r.loader.Name(), r.now().Sub(fetchStart))
	if err != nil {
		if model.KindOf(err) == model.KindInternal {
			err = fmt.Errorf("%w: %w", model.ErrFetch, err)
		}
		return nil, err
	}
	if series.Empty() {
		return nil, fmt.Errorf("%w: no bars for %s between %s and %s", model.ErrNoData,
			req.Ticker, req.Start.Format(model.DateLayout), req.End.Format(model.DateLayout))
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s returned bad bars: %w", model.ErrFetch, r.loader.Name(), err)
	}
	log.Debug("bars fetched",
		logger.String("source", r.loader.Name()),
		logger.Int("bars", series.Len()),
		logger.String("last", series.Last().Date.Format(model.DateLayout)))

	if need := calculator.MinBars(calculator.SignalKinds()); series.Len() < need {
		return nil, fmt.Errorf("%w: %d bars, the signal needs %d", model.ErrInsufficientData, series.Len(), need)
	}

	trend, points, err := forecast.Forecast(series, req.Horizon)
	if err != nil {
		return nil, err
	}

	frame, err := r.engine.Compute(series, r.kinds)
	if err != nil {
		return nil, err
	}

	decision, err := strategy.Evaluate(frame)
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w", req.Ticker, err)
	}

	return &Result{
		RunID:      runID,
		Request:    req,
		Source:     r.loader.Name(),
		Series:     series,
		Frame:      frame,
		Trend:      trend,
		Forecast:   points,
		Decision:   decision,
		Charts:     chart.Build(frame, trend, points, strategy.History(frame)),
		ComputedAt: r.now().UTC(),
	}, nil
}
