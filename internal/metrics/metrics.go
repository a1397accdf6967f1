// Package metrics exposes the service counters on a dedicated Prometheus
// registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stockflow"

type Metrics struct {
	registry *prometheus.Registry

	SimulationRuns     *prometheus.CounterVec
	SimulatedDays      prometheus.Counter
	Reorders           *prometheus.CounterVec
	StockAdjustments   *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	PurchaseNotesBuilt prometheus.Counter
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		SimulationRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulation_runs_total",
			Help:      "Simulation runs by outcome.",
		}, []string{"outcome"}),
		SimulatedDays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulated_days_total",
			Help:      "Days stepped across all simulation runs.",
		}),
		Reorders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reorders_total",
			Help:      "Replenishment orders placed by simulations, per material.",
		}, []string{"material"}),
		StockAdjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_adjustments_total",
			Help:      "Stock adjustment requests by outcome.",
		}, []string{"outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		PurchaseNotesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchase_notes_total",
			Help:      "Purchase notes rendered.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.SimulationRuns,
		m.SimulatedDays,
		m.Reorders,
		m.StockAdjustments,
		m.HTTPRequests,
		m.HTTPDuration,
		m.PurchaseNotesBuilt,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRun records a finished simulation. reorders maps material → count.
func (m *Metrics) ObserveRun(outcome string, days int, reorders map[string]int) {
	if m == nil {
		return
	}
	m.SimulationRuns.WithLabelValues(outcome).Inc()
	m.SimulatedDays.Add(float64(days))
	for material, n := range reorders {
		m.Reorders.WithLabelValues(material).Add(float64(n))
	}
}

// ObserveAdjustment records a stock adjustment outcome.
func (m *Metrics) ObserveAdjustment(outcome string) {
	if m == nil {
		return
	}
	m.StockAdjustments.WithLabelValues(outcome).Inc()
}

// ObservePurchaseNote counts a rendered purchase note.
func (m *Metrics) ObservePurchaseNote() {
	if m == nil {
		return
	}
	m.PurchaseNotesBuilt.Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
