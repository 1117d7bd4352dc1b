// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cdms"

// Failure stages reported by AuditFailed.
const (
	StagePrefetch = "prefetch"
	StageWrite    = "write"
)

// Metrics groups the collectors. A nil *Metrics is a valid no-op.
type Metrics struct {
	registry      *prometheus.Registry
	auditRecords  *prometheus.CounterVec
	auditFailures *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		auditRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_records_total",
			Help:      "Audit records persisted, by entity and action.",
		}, []string{"entity", "action"}),
		auditFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_failures_total",
			Help:      "Best-effort audit steps that failed and were swallowed.",
		}, []string{"entity", "stage"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		m.auditRecords,
		m.auditFailures,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) AuditRecorded(entity, action string) {
	if m == nil {
		return
	}
	m.auditRecords.WithLabelValues(entity, action).Inc()
}

func (m *Metrics) AuditFailed(entity, stage string) {
	if m == nil {
		return
	}
	m.auditFailures.WithLabelValues(entity, stage).Inc()
}

func (m *Metrics) RequestServed(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
