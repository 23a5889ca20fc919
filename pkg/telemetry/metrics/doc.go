// Package metrics provides Prometheus metrics collection for the
// coaching engine.
//
// # Metrics Categories
//
//   - Suggestion metrics: suggestion count by outcome, end-to-end
//     duration
//   - Guardrail metrics: guardrail interventions by kind
//   - Policy metrics: policy hit count by policy ID
//   - Backend metrics: backend call count by status, failover count
//
// # Usage
//
//	collector := metrics.NewCollector("coach", prometheus.NewRegistry())
//	collector.RecordSuggestion("generated", 850*time.Millisecond)
//	collector.RecordPolicyHit("ADV-7.2")
//	http.Handle("/metrics", collector.Handler())
//
// The Collector satisfies the recorder interfaces of the coach and
// fallback packages, so a single instance wires the whole pipeline.
package metrics
