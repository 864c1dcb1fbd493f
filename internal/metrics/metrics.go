// Package metrics exposes the engine's Prometheus metrics.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/mlb-dfs-projections/internal/projection/batch"
	"github.com/jstittsworth/mlb-dfs-projections/internal/projection/calculators"
)

// Registry holds all Prometheus metrics for the projection engine
type Registry struct {
	registry *prometheus.Registry

	// Projection output
	Projections *prometheus.CounterVec

	// Calculator fallbacks by category and failure reason
	CalculatorFallbacks *prometheus.CounterVec

	// Provider requests by provider and outcome
	ProviderRequests *prometheus.CounterVec

	// Slate runs
	Runs        *prometheus.CounterVec
	RunDuration prometheus.Histogram
	ActiveRuns  prometheus.Gauge

	WebSocketClients prometheus.Gauge
}

// NewRegistry creates a registry with every metric registered
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		Projections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mlbdfs_projections_total",
				Help: "Player projections produced by role and outcome",
			},
			[]string{"role", "outcome"},
		),

		CalculatorFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mlbdfs_calculator_fallbacks_total",
				Help: "Category calculators that returned their documented default",
			},
			[]string{"category", "reason"},
		),

		ProviderRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mlbdfs_provider_requests_total",
				Help: "External data requests by provider and result",
			},
			[]string{"provider", "result"},
		),

		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mlbdfs_runs_total",
				Help: "Slate runs by final status",
			},
			[]string{"status"},
		),

		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mlbdfs_run_duration_seconds",
				Help:    "Wall time of a full slate run",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120, 300},
			},
		),

		ActiveRuns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mlbdfs_active_runs",
				Help: "Slate runs currently in progress",
			},
		),

		WebSocketClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mlbdfs_websocket_clients",
				Help: "Connected websocket subscribers",
			},
		),
	}

	r.registry.MustRegister(
		r.Projections,
		r.CalculatorFallbacks,
		r.ProviderRequests,
		r.Runs,
		r.RunDuration,
		r.ActiveRuns,
		r.WebSocketClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ProviderRequest matches providers.Observer
func (r *Registry) ProviderRequest(provider, result string) {
	r.ProviderRequests.WithLabelValues(provider, result).Inc()
}

// ObserveResult records a finished slate
func (r *Registry) ObserveResult(res *batch.Result) {
	defaultedBatters, defaultedPitchers := res.Defaulted()
	r.Projections.WithLabelValues("batter", "projected").Add(float64(len(res.Batters) - defaultedBatters))
	r.Projections.WithLabelValues("batter", "defaulted").Add(float64(defaultedBatters))
	r.Projections.WithLabelValues("pitcher", "projected").Add(float64(len(res.Pitchers) - defaultedPitchers))
	r.Projections.WithLabelValues("pitcher", "defaulted").Add(float64(defaultedPitchers))
	r.RunDuration.Observe(res.Duration().Seconds())
}

// ObserveRun counts a run by its final status
func (r *Registry) ObserveRun(status string) {
	r.Runs.WithLabelValues(status).Inc()
}

// FallbackHook returns a logrus hook that counts calculator fallback warnings
func (r *Registry) FallbackHook() logrus.Hook {
	return &fallbackHook{counter: r.CalculatorFallbacks}
}

type fallbackHook struct {
	counter *prometheus.CounterVec
}

func (h *fallbackHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.WarnLevel}
}

func (h *fallbackHook) Fire(entry *logrus.Entry) error {
	if entry.Message != calculators.FallbackMessage {
		return nil
	}
	h.counter.WithLabelValues(label(entry.Data["category"]), label(entry.Data["reason"])).Inc()
	return nil
}

func label(v interface{}) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprint(v)
}
