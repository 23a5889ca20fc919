package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const minimalYAML = `
policies:
  path: ./policies.yaml
backends:
  openai:
    type: openai
    api_key: sk-test
fallback:
  order: [openai]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coach.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Policies.DebounceInterval != DefaultDebounceInterval {
		t.Errorf("debounce = %v, want %v", cfg.Policies.DebounceInterval, DefaultDebounceInterval)
	}
	if got := cfg.Backends["openai"].Timeout; got != DefaultBackendTimeout {
		t.Errorf("backend timeout = %v, want %v", got, DefaultBackendTimeout)
	}
	if got := cfg.Backends["openai"].MaxRetries; got != DefaultBackendMaxRetries {
		t.Errorf("backend max retries = %d, want %d", got, DefaultBackendMaxRetries)
	}
	if cfg.Coach.MaxSuggestionChars != DefaultMaxSuggestionChars {
		t.Errorf("max suggestion chars = %d", cfg.Coach.MaxSuggestionChars)
	}
	if cfg.Coach.Variety != DefaultVariety {
		t.Errorf("variety = %v", cfg.Coach.Variety)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("logging defaults = %s/%s", cfg.Telemetry.Logging.Level, cfg.Telemetry.Logging.Format)
	}
	if cfg.Telemetry.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("metrics namespace = %q", cfg.Telemetry.Metrics.Namespace)
	}
}

func TestLoadConfigFileValues(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
policies:
  path: /etc/coach/policies.yaml
  watch: true
  debounce_interval: 500ms
backends:
  openai:
    type: openai
    api_key: sk-a
    model: gpt-4o-mini
    timeout: 30s
  anthropic:
    type: anthropic
    api_key: sk-b
fallback:
  order: [openai, anthropic]
coach:
  brand_tone: warm and direct
  max_suggestion_chars: 300
  temperature: 0.7
health:
  schedule: "*/5 * * * *"
telemetry:
  logging:
    level: debug
    format: text
  metrics:
    enabled: true
`))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if !cfg.Policies.Watch {
		t.Error("watch not parsed")
	}
	if cfg.Policies.DebounceInterval != 500*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Policies.DebounceInterval)
	}
	if got := cfg.Backends["openai"].Timeout; got != 30*time.Second {
		t.Errorf("openai timeout = %v", got)
	}
	if len(cfg.Fallback.Order) != 2 || cfg.Fallback.Order[0] != "openai" {
		t.Errorf("fallback order = %v", cfg.Fallback.Order)
	}
	if cfg.Coach.BrandTone != "warm and direct" {
		t.Errorf("brand tone = %q", cfg.Coach.BrandTone)
	}
	if cfg.Coach.MaxSuggestionChars != 300 {
		t.Errorf("max suggestion chars = %d", cfg.Coach.MaxSuggestionChars)
	}
	if cfg.Health.Schedule != "*/5 * * * *" {
		t.Errorf("schedule = %q", cfg.Health.Schedule)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("metrics not enabled")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfig() with missing file should fail")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("COACH_POLICIES_PATH", "/override/policies.yaml")
	t.Setenv("COACH_BACKENDS_OPENAI_API_KEY", "sk-env")
	t.Setenv("COACH_BACKENDS_OPENAI_TIMEOUT", "15s")
	t.Setenv("COACH_BACKENDS_ANTHROPIC_API_KEY", "sk-env-anthropic")
	t.Setenv("COACH_COACH_TEMPERATURE", "0.9")
	t.Setenv("COACH_TELEMETRY_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfigWithEnvOverrides(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}

	if cfg.Policies.Path != "/override/policies.yaml" {
		t.Errorf("policies path = %q", cfg.Policies.Path)
	}
	if got := cfg.Backends["openai"].APIKey; got != "sk-env" {
		t.Errorf("openai api key = %q", got)
	}
	if got := cfg.Backends["openai"].Timeout; got != 15*time.Second {
		t.Errorf("openai timeout = %v", got)
	}
	// A backend absent from the file can be configured entirely from
	// the environment.
	if got := cfg.Backends["anthropic"].APIKey; got != "sk-env-anthropic" {
		t.Errorf("anthropic api key = %q", got)
	}
	if cfg.Coach.Temperature != 0.9 {
		t.Errorf("temperature = %v", cfg.Coach.Temperature)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("logging level = %q", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfigEnvOverrideInvalidAfter(t *testing.T) {
	// An override that breaks validation surfaces as an error.
	t.Setenv("COACH_FALLBACK_ORDER", "openai,missing-backend")

	_, err := LoadConfigWithEnvOverrides(writeConfig(t, minimalYAML))
	if err == nil {
		t.Fatal("want validation failure after env overrides")
	}
	if !strings.Contains(err.Error(), "missing-backend") {
		t.Errorf("error = %v, should name the unknown backend", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "empty fallback order",
			mutate:    func(c *Config) { c.Fallback.Order = nil },
			wantField: "fallback.order",
		},
		{
			name:      "duplicate fallback entry",
			mutate:    func(c *Config) { c.Fallback.Order = []string{"openai", "openai"} },
			wantField: "fallback.order",
		},
		{
			name:      "unknown backend in order",
			mutate:    func(c *Config) { c.Fallback.Order = []string{"openai", "ghost"} },
			wantField: "fallback.order",
		},
		{
			name: "unsupported backend type",
			mutate: func(c *Config) {
				b := c.Backends["openai"]
				b.Type = "palm"
				c.Backends["openai"] = b
			},
			wantField: "backends.openai.type",
		},
		{
			name: "malformed base url",
			mutate: func(c *Config) {
				b := c.Backends["openai"]
				b.BaseURL = "not a url"
				c.Backends["openai"] = b
			},
			wantField: "backends.openai.base_url",
		},
		{
			name:      "temperature out of range",
			mutate:    func(c *Config) { c.Coach.Temperature = 3.0 },
			wantField: "coach.temperature",
		},
		{
			name:      "variety out of range",
			mutate:    func(c *Config) { c.Coach.Variety = 1.5 },
			wantField: "coach.variety",
		},
		{
			name:      "bad cron schedule",
			mutate:    func(c *Config) { c.Health.Schedule = "not cron" },
			wantField: "health.schedule",
		},
		{
			name:      "bad logging level",
			mutate:    func(c *Config) { c.Telemetry.Logging.Level = "verbose" },
			wantField: "telemetry.logging.level",
		},
		{
			name:      "bad logging format",
			mutate:    func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			wantField: "telemetry.logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Backends: map[string]BackendConfig{
					"openai": {Type: "openai", APIKey: "sk-test"},
				},
				Fallback: FallbackConfig{Order: []string{"openai"}},
			}
			ApplyDefaults(cfg)
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() passed, want error")
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error type = %T", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("errors = %v, want field %s", verr.Errors, tt.wantField)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Policies: PoliciesConfig{Path: ""},
		Coach:    CoachConfig{Temperature: 5},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{Level: "nope", Format: "nope"},
		},
	}

	err := Validate(cfg)
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T", err)
	}
	if len(verr.Errors) < 4 {
		t.Errorf("collected %d errors, want at least 4: %v", len(verr.Errors), verr.Errors)
	}
	if !strings.Contains(verr.Error(), "errors:") {
		t.Errorf("multi-error message = %q", verr.Error())
	}
}
