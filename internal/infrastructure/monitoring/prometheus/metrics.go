// Package prometheus exposes the molcraft operational metrics: per-operation
// request counts and latency histograms, served from a dedicated registry so
// tests can instantiate metrics without global collisions.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the molcraft Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	operationsTotal *prometheus.CounterVec
	operationTime   *prometheus.HistogramVec

	httpRequestsTotal *prometheus.CounterVec
	httpRequestTime   *prometheus.HistogramVec
}

// NewMetrics creates and registers all collectors on a fresh registry,
// including the standard Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "molcraft",
			Subsystem: "analysis",
			Name:      "operations_total",
			Help:      "Total analysis operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		operationTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "molcraft",
			Subsystem: "analysis",
			Name:      "operation_duration_seconds",
			Help:      "Analysis operation latency by name.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30},
		}, []string{"operation"}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "molcraft",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route, method, and status class.",
		}, []string{"route", "method", "status"}),
		httpRequestTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "molcraft",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	reg.MustRegister(
		m.operationsTotal,
		m.operationTime,
		m.httpRequestsTotal,
		m.httpRequestTime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveOperation records one analysis operation; it satisfies the façade's
// Recorder interface.
func (m *Metrics) ObserveOperation(op string, duration time.Duration, failed bool) {
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.operationsTotal.WithLabelValues(op, outcome).Inc()
	m.operationTime.WithLabelValues(op).Observe(duration.Seconds())
}

// ObserveHTTPRequest records one HTTP request.
func (m *Metrics) ObserveHTTPRequest(route, method string, status int, duration time.Duration) {
	class := "2xx"
	switch {
	case status >= 500:
		class = "5xx"
	case status >= 400:
		class = "4xx"
	case status >= 300:
		class = "3xx"
	}
	m.httpRequestsTotal.WithLabelValues(route, method, class).Inc()
	m.httpRequestTime.WithLabelValues(route).Observe(duration.Seconds())
}

// Handler returns the exposition endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
