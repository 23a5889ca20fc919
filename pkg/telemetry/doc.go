// Package telemetry provides observability for the coaching engine.
//
// # Components
//
//   - logging: Structured logging with sensitive-field redaction
//   - metrics: Prometheus metrics collection
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json", RedactSensitive: true})
//	collector := metrics.NewCollector("coach", prometheus.NewRegistry())
//
// Logging is built on log/slog; most packages log through slog
// directly and only the process entry point configures the handler.
package telemetry
