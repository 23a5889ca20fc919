package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified
// path. It applies default values, validates the configuration, and
// returns any errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention COACH_SECTION_FIELD (e.g. COACH_POLICIES_PATH) and always
// take precedence over file values.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	// Policy overrides
	if val := os.Getenv("COACH_POLICIES_PATH"); val != "" {
		cfg.Policies.Path = val
	}
	if val := os.Getenv("COACH_POLICIES_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Policies.Watch = b
		}
	}
	if val := os.Getenv("COACH_POLICIES_DEBOUNCE_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Policies.DebounceInterval = d
		}
	}

	// Backend overrides for every configured backend plus the common
	// names, so an API key can come entirely from the environment.
	seen := map[string]bool{}
	for name := range cfg.Backends {
		applyBackendEnvOverrides(cfg, name)
		seen[name] = true
	}
	for _, name := range []string{"openai", "anthropic"} {
		if !seen[name] {
			applyBackendEnvOverrides(cfg, name)
		}
	}

	// Fallback overrides
	if val := os.Getenv("COACH_FALLBACK_ORDER"); val != "" {
		parts := strings.Split(val, ",")
		order := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				order = append(order, p)
			}
		}
		if len(order) > 0 {
			cfg.Fallback.Order = order
		}
	}

	// Coach overrides
	if val := os.Getenv("COACH_COACH_BRAND_TONE"); val != "" {
		cfg.Coach.BrandTone = val
	}
	if val := os.Getenv("COACH_COACH_MAX_SUGGESTION_CHARS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Coach.MaxSuggestionChars = i
		}
	}
	if val := os.Getenv("COACH_COACH_MAX_SENTENCES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Coach.MaxSentences = i
		}
	}
	if val := os.Getenv("COACH_COACH_TEMPERATURE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Coach.Temperature = f
		}
	}
	if val := os.Getenv("COACH_COACH_VARIETY"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Coach.Variety = f
		}
	}

	// Health overrides
	if val := os.Getenv("COACH_HEALTH_SCHEDULE"); val != "" {
		cfg.Health.Schedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("COACH_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("COACH_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("COACH_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}

// applyBackendEnvOverrides applies environment variable overrides for
// one backend. Variables follow the format COACH_BACKENDS_<NAME>_<FIELD>
// where NAME is the uppercase backend name.
func applyBackendEnvOverrides(cfg *Config, backendName string) {
	if cfg.Backends == nil {
		cfg.Backends = make(map[string]BackendConfig)
	}

	backend, exists := cfg.Backends[backendName]

	prefix := fmt.Sprintf("COACH_BACKENDS_%s_", strings.ToUpper(backendName))
	modified := false

	if val := os.Getenv(prefix + "BASE_URL"); val != "" {
		backend.BaseURL = val
		modified = true
	}
	if val := os.Getenv(prefix + "API_KEY"); val != "" {
		backend.APIKey = val
		modified = true
	}
	if val := os.Getenv(prefix + "MODEL"); val != "" {
		backend.Model = val
		modified = true
	}
	if val := os.Getenv(prefix + "TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			backend.Timeout = d
			modified = true
		}
	}
	if val := os.Getenv(prefix + "MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			backend.MaxRetries = i
			modified = true
		}
	}

	if modified || exists {
		cfg.Backends[backendName] = backend
	}
}
