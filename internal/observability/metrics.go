package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors for HTTP traffic and auth outcomes.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorCount      *prometheus.CounterVec
	loginCount      *prometheus.CounterVec
	gateCount       *prometheus.CounterVec
}

// NewMetrics registers collectors on a fresh registry.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"path", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "HTTP error responses by domain error code.",
		}, []string{"path", "method", "code"}),
		loginCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		gateCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_gate_decisions_total",
			Help:      "Authorization gate decisions by outcome and rejection reason.",
		}, []string{"outcome", "reason"}),
	}
	m.registry.MustRegister(
		m.requestCount,
		m.requestDuration,
		m.errorCount,
		m.loginCount,
		m.gateCount,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(path, method, code).Inc()
}

// RecordLogin counts a login attempt; outcome is "success" or a rejection reason.
func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.loginCount.WithLabelValues(outcome).Inc()
}

// RecordGateDecision counts one authorization gate evaluation.
func (m *Metrics) RecordGateDecision(outcome, reason string) {
	if m == nil {
		return
	}
	m.gateCount.WithLabelValues(outcome, reason).Inc()
}
