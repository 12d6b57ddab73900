// Package metrics exposes Prometheus collectors for the console.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "console"

// Metrics owns a registry and every collector registered on it.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	PassesIssuedTotal    *prometheus.CounterVec
	RedemptionsTotal     *prometheus.CounterVec
	OperationErrors      *prometheus.CounterVec
	OutboxDeliveredTotal *prometheus.CounterVec
	OutboxFailuresTotal  *prometheus.CounterVec
}

// New registers the console collectors, plus the Go and process collectors,
// on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		PassesIssuedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_issued_total",
			Help:      "QR passes issued by kind.",
		}, []string{"kind"}),
		RedemptionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pass_redemptions_total",
			Help:      "Visitor pass redemptions by direction and outcome.",
		}, []string{"direction", "outcome"}),
		OperationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Failed API operations by operation and error kind.",
		}, []string{"operation", "kind"}),
		OutboxDeliveredTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_delivered_total",
			Help:      "Outbox events published to the broker.",
		}, []string{"topic"}),
		OutboxFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_failures_total",
			Help:      "Outbox publish failures. final is true when the event was parked.",
		}, []string{"topic", "final"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// PassIssued counts an issued pass of the given kind.
func (m *Metrics) PassIssued(kind string) {
	if m == nil {
		return
	}
	m.PassesIssuedTotal.WithLabelValues(kind).Inc()
}

// Redemption counts a redeem attempt.
func (m *Metrics) Redemption(direction, outcome string) {
	if m == nil {
		return
	}
	m.RedemptionsTotal.WithLabelValues(direction, outcome).Inc()
}

// OperationFailed counts a failed API operation.
func (m *Metrics) OperationFailed(operation, kind string) {
	if m == nil {
		return
	}
	m.OperationErrors.WithLabelValues(operation, kind).Inc()
}

// OutboxDelivered counts a published outbox event.
func (m *Metrics) OutboxDelivered(topic string) {
	if m == nil {
		return
	}
	m.OutboxDeliveredTotal.WithLabelValues(topic).Inc()
}

// OutboxFailed counts a failed publish.
func (m *Metrics) OutboxFailed(topic string, final bool) {
	if m == nil {
		return
	}
	m.OutboxFailuresTotal.WithLabelValues(topic, strconv.FormatBool(final)).Inc()
}
