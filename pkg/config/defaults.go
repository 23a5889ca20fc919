package config

import "time"

// Default values for configuration fields.
const (
	// Policy defaults
	DefaultPoliciesPath     = "./policies.yaml"
	DefaultPoliciesWatch    = false
	DefaultDebounceInterval = 200 * time.Millisecond

	// Backend defaults
	DefaultBackendTimeout    = 60 * time.Second
	DefaultBackendMaxRetries = 2

	// Coach defaults
	DefaultMaxSuggestionChars = 240
	DefaultMaxSentences       = 2
	DefaultTemperature        = 0.4
	DefaultMaxOutputTokens    = 512
	DefaultRepairConfidence   = 0.35
	DefaultVariety            = 0.6

	// Health defaults
	DefaultHealthCheckTimeout = 10 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsNamespace = "coach"
	DefaultMetricsPath      = "/metrics"
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values and is
// idempotent, so it is safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Policy defaults
	if cfg.Policies.Path == "" {
		cfg.Policies.Path = DefaultPoliciesPath
	}
	if cfg.Policies.DebounceInterval == 0 {
		cfg.Policies.DebounceInterval = DefaultDebounceInterval
	}

	// Backend defaults - applied to each backend
	for name, backend := range cfg.Backends {
		if backend.Timeout == 0 {
			backend.Timeout = DefaultBackendTimeout
		}
		if backend.MaxRetries == 0 {
			backend.MaxRetries = DefaultBackendMaxRetries
		}
		cfg.Backends[name] = backend
	}

	// Coach defaults
	if cfg.Coach.MaxSuggestionChars == 0 {
		cfg.Coach.MaxSuggestionChars = DefaultMaxSuggestionChars
	}
	if cfg.Coach.MaxSentences == 0 {
		cfg.Coach.MaxSentences = DefaultMaxSentences
	}
	if cfg.Coach.Temperature == 0 {
		cfg.Coach.Temperature = DefaultTemperature
	}
	if cfg.Coach.MaxOutputTokens == 0 {
		cfg.Coach.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if cfg.Coach.RepairConfidence == 0 {
		cfg.Coach.RepairConfidence = DefaultRepairConfidence
	}
	if cfg.Coach.Variety == 0 {
		cfg.Coach.Variety = DefaultVariety
	}

	// Health defaults
	if cfg.Health.CheckTimeout == 0 {
		cfg.Health.CheckTimeout = DefaultHealthCheckTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}
