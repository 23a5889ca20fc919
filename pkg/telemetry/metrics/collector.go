package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the coaching engine.
// Safe for concurrent use.
type Collector struct {
	registry *prometheus.Registry

	suggestionsTotal    *prometheus.CounterVec
	suggestDuration     prometheus.Histogram
	guardrailEvents     *prometheus.CounterVec
	policyHitsTotal     *prometheus.CounterVec
	backendCallsTotal   *prometheus.CounterVec
	backendCallDuration *prometheus.HistogramVec
	failoversTotal      *prometheus.CounterVec
	policyReloadsTotal  *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on the
// given registry. A nil registry creates a private one.
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		suggestionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_total",
			Help:      "Total coaching suggestions by outcome (generated, precheck, safe_template, failed).",
		}, []string{"outcome"}),

		suggestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "suggest_duration_seconds",
			Help:      "End-to-end duration of the suggestion workflow.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),

		guardrailEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guardrail_events_total",
			Help:      "Guardrail interventions by kind (pii_leak, policy_reviolation, length_exceeded).",
		}, []string{"kind"}),

		policyHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_hits_total",
			Help:      "Policy rule hits by policy ID.",
		}, []string{"policy_id"}),

		backendCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_calls_total",
			Help:      "Generation backend calls by backend and status.",
		}, []string{"backend", "status"}),

		backendCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_call_duration_seconds",
			Help:      "Generation backend call duration.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"backend"}),

		failoversTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failovers_total",
			Help:      "Failovers past a backend that failed.",
		}, []string{"backend"}),

		policyReloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_reloads_total",
			Help:      "Policy store reloads by status (success, error).",
		}, []string{"status"}),
	}

	registry.MustRegister(
		c.suggestionsTotal,
		c.suggestDuration,
		c.guardrailEvents,
		c.policyHitsTotal,
		c.backendCallsTotal,
		c.backendCallDuration,
		c.failoversTotal,
		c.policyReloadsTotal,
	)

	return c
}

// RecordSuggestion records one completed suggestion workflow.
func (c *Collector) RecordSuggestion(outcome string, duration time.Duration) {
	c.suggestionsTotal.WithLabelValues(outcome).Inc()
	c.suggestDuration.Observe(duration.Seconds())
}

// RecordGuardrailEvent records a guardrail intervention.
func (c *Collector) RecordGuardrailEvent(kind string) {
	c.guardrailEvents.WithLabelValues(kind).Inc()
}

// RecordPolicyHit records a policy rule hit.
func (c *Collector) RecordPolicyHit(policyID string) {
	c.policyHitsTotal.WithLabelValues(policyID).Inc()
}

// RecordBackendCall records one backend invocation.
func (c *Collector) RecordBackendCall(backend, status string, duration time.Duration) {
	c.backendCallsTotal.WithLabelValues(backend, status).Inc()
	c.backendCallDuration.WithLabelValues(backend).Observe(duration.Seconds())
}

// RecordFailover records a failover past the named backend.
func (c *Collector) RecordFailover(backend string) {
	c.failoversTotal.WithLabelValues(backend).Inc()
}

// RecordPolicyReload records a policy store reload attempt.
func (c *Collector) RecordPolicyReload(status string) {
	c.policyReloadsTotal.WithLabelValues(status).Inc()
}

// Handler returns an http.Handler serving the registry in Prometheus
// exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for callers that register
// additional metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
