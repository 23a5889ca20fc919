package config

import "time"

// Config is the root configuration for the coaching engine.
type Config struct {
	Policies  PoliciesConfig           `yaml:"policies"`
	Backends  map[string]BackendConfig `yaml:"backends"`
	Fallback  FallbackConfig           `yaml:"fallback"`
	Coach     CoachConfig              `yaml:"coach"`
	Health    HealthConfig             `yaml:"health"`
	Telemetry TelemetryConfig          `yaml:"telemetry"`
}

// PoliciesConfig locates the policy definitions and controls hot
// reload.
type PoliciesConfig struct {
	// Path is the YAML file holding policy definitions.
	Path string `yaml:"path"`

	// Watch enables filesystem-driven policy reload.
	Watch bool `yaml:"watch"`

	// DebounceInterval coalesces rapid file events into one reload.
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// BackendConfig configures a single generation backend.
type BackendConfig struct {
	// Type selects the adapter: openai, anthropic or generic. Empty
	// means infer from the backend name.
	Type string `yaml:"type"`

	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`

	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`

	// Connection pool tuning.
	MaxIdleConns        int           `yaml:"max_idle_conns"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout"`
}

// FallbackConfig fixes the backend failover order.
type FallbackConfig struct {
	// Order lists backend names, primary first. Every name must
	// appear in the backends map.
	Order []string `yaml:"order"`
}

// CoachConfig tunes the suggestion workflow.
type CoachConfig struct {
	// BrandTone is the default tone instruction when a request does
	// not carry one.
	BrandTone string `yaml:"brand_tone"`

	// MaxSuggestionChars caps suggestion length before truncation.
	MaxSuggestionChars int `yaml:"max_suggestion_chars"`

	// MaxSentences caps suggestions to this many sentences.
	MaxSentences int `yaml:"max_sentences"`

	// Temperature and MaxOutputTokens are passed to the generation
	// backend.
	Temperature     float64 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`

	// RepairConfidence is reported when a safe template replaces a
	// failed suggestion.
	RepairConfidence float64 `yaml:"repair_confidence"`

	// Variety controls alternate rotation: the probability that a
	// validated alternate is promoted over the primary suggestion.
	Variety float64 `yaml:"variety"`

	// PromptTemplates are paths to system prompt templates, tried in
	// order; the first readable one wins. Empty falls back to the
	// built-in template.
	PromptTemplates []string `yaml:"prompt_templates"`
}

// HealthConfig schedules the backend health sweep.
type HealthConfig struct {
	// Schedule is a standard cron expression. Empty disables the
	// sweep.
	Schedule string `yaml:"schedule"`

	// CheckTimeout bounds a single backend health check.
	CheckTimeout time.Duration `yaml:"check_timeout"`
}

// TelemetryConfig configures logging and metrics.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is json or text.
	Format string `yaml:"format"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace"`

	// Path is where the metrics handler should be mounted.
	Path string `yaml:"path"`
}
