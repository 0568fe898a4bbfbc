package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes analysis-run metrics to Prometheus.
type Recorder struct {
	registry      *prometheus.Registry
	runsTotal     *prometheus.CounterVec
	runErrors     *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	runDuration   prometheus.Histogram
	lastClose     *prometheus.GaugeVec
}

// New creates a recorder on its own registry, including Go and process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewWithRegistry(reg)
}

// NewWithRegistry creates a recorder registered on reg.
func NewWithRegistry(reg *prometheus.Registry) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendscope_runs_total",
				Help: "Completed analysis runs by signal",
			},
			[]string{"signal"},
		),
		runErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendscope_run_errors_total",
				Help: "Failed analysis runs by error kind",
			},
			[]string{"kind"},
		),
		fetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trendscope_fetch_duration_seconds",
				Help:    "Market data fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		runDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "trendscope_run_duration_seconds",
				Help:    "End-to-end analysis run duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		lastClose: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "trendscope_last_close",
				Help: "Latest close seen for a ticker",
			},
			[]string{"ticker"},
		),
	}
}

// Registry returns the registry backing /metrics.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) RecordRun(signal string, took time.Duration) {
	r.runsTotal.WithLabelValues(signal).Inc()
	r.runDuration.Observe(took.Seconds())
}

func (r *Recorder) RecordError(kind string) {
	r.runErrors.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordFetch(source string, took time.Duration) {
	r.fetchDuration.WithLabelValues(source).Observe(took.Seconds())
}

func (r *Recorder) RecordLastClose(ticker string, price float64) {
	r.lastClose.WithLabelValues(ticker).Set(price)
}
