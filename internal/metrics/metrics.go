package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics. Methods are nil-receiver safe
// so components can run without instrumentation wired in (tests, one-off
// screens).
type Registry struct {
	*prometheus.Registry

	fetchesTotal    *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	screensTotal    prometheus.Counter
	screenDuration  prometheus.Histogram
	exclusionsTotal *prometheus.CounterVec
	monthsTotal     prometheus.Counter
	backtestsTotal  *prometheus.CounterVec
	backtestSeconds prometheus.Histogram
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		fetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screener_fetches_total",
				Help: "Total number of price history fetches",
			},
			[]string{"source", "status"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "screener_fetch_duration_seconds",
				Help:    "Price history fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		screensTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "screener_screens_total",
				Help: "Total number of screening passes completed",
			},
		),
		screenDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "screener_screen_duration_seconds",
				Help:    "Screening pass duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		exclusionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screener_exclusions_total",
				Help: "Total number of tickers excluded during a run",
			},
			[]string{"stage"},
		),
		monthsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "screener_backtest_months_total",
				Help: "Total number of walk-forward months processed",
			},
		),
		backtestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screener_backtests_total",
				Help: "Total number of backtest runs",
			},
			[]string{"status"},
		),
		backtestSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "screener_backtest_duration_seconds",
				Help:    "Backtest run duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
		),
	}

	reg.MustRegister(r.fetchesTotal)
	reg.MustRegister(r.fetchDuration)
	reg.MustRegister(r.screensTotal)
	reg.MustRegister(r.screenDuration)
	reg.MustRegister(r.exclusionsTotal)
	reg.MustRegister(r.monthsTotal)
	reg.MustRegister(r.backtestsTotal)
	reg.MustRegister(r.backtestSeconds)

	return r
}

// RecordFetch records one price history fetch.
func (r *Registry) RecordFetch(source, status string, seconds float64) {
	if r == nil {
		return
	}
	r.fetchesTotal.WithLabelValues(source, status).Inc()
	r.fetchDuration.WithLabelValues(source).Observe(seconds)
}

// RecordScreen records a completed screening pass.
func (r *Registry) RecordScreen(seconds float64) {
	if r == nil {
		return
	}
	r.screensTotal.Inc()
	r.screenDuration.Observe(seconds)
}

// RecordExclusion records a ticker excluded at the given stage
// ("screen", "measure" or "benchmark").
func (r *Registry) RecordExclusion(stage string) {
	if r == nil {
		return
	}
	r.exclusionsTotal.WithLabelValues(stage).Inc()
}

// RecordMonth records one finalized walk-forward month.
func (r *Registry) RecordMonth() {
	if r == nil {
		return
	}
	r.monthsTotal.Inc()
}

// RecordBacktest records a backtest run completion.
func (r *Registry) RecordBacktest(status string, seconds float64) {
	if r == nil {
		return
	}
	r.backtestsTotal.WithLabelValues(status).Inc()
	r.backtestSeconds.Observe(seconds)
}

// Handler returns an HTTP handler exposing the registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{})
}
