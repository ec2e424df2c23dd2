// Package metrics exposes the service counters on a private Prometheus registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
	ResultLimited  = "limited"
)

// Metrics groups the counters the service records.
type Metrics struct {
	registry *prometheus.Registry

	// Interactions counts navbar operations by action (enter, leave, toggle) and result.
	Interactions IncrementalCounter
	// Reloads counts catalog reloads by result.
	Reloads IncrementalCounter
	// SessionsSwept counts idle sessions removed by the GC.
	SessionsSwept prometheus.Counter
}

// New creates the registry with Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	swept := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "navbar_sessions_swept_total",
		Help: "Idle navbar sessions removed by the garbage collector.",
	})
	reg.MustRegister(swept)

	return &Metrics{
		registry: reg,
		Interactions: NewCounterWithRegistry(reg, "navbar_interactions_total",
			"Navbar interactions by action and result.", "action", "result"),
		Reloads: NewCounterWithRegistry(reg, "navbar_catalog_reloads_total",
			"Catalog reloads by result.", "result"),
		SessionsSwept: swept,
	}
}

// NewNop returns metrics that are recorded nowhere. Used by tests and the preview.
func NewNop() *Metrics {
	return &Metrics{
		registry:      prometheus.NewRegistry(),
		Interactions:  Nop(),
		Reloads:       Nop(),
		SessionsSwept: prometheus.NewCounter(prometheus.CounterOpts{Name: "nop"}),
	}
}

// RegisterGauge exposes a value computed on scrape, e.g. the live session count.
func (m *Metrics) RegisterGauge(name, help string, fn func() float64) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	}, fn))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
