package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration
// field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g.,
	// "fallback.order").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. It implements the error interface and provides access
// to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a
// ValidationError if any validation rules fail. All validation errors
// are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validatePolicies(&cfg.Policies)...)
	errs = append(errs, validateBackends(cfg.Backends)...)
	errs = append(errs, validateFallback(cfg)...)
	errs = append(errs, validateCoach(&cfg.Coach)...)
	errs = append(errs, validateHealth(&cfg.Health)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validatePolicies(p *PoliciesConfig) []FieldError {
	var errs []FieldError

	if p.Path == "" {
		errs = append(errs, FieldError{
			Field:   "policies.path",
			Message: "policy file path is required",
		})
	}
	if p.DebounceInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "policies.debounce_interval",
			Message: "debounce interval cannot be negative",
		})
	}

	return errs
}

func validateBackends(backends map[string]BackendConfig) []FieldError {
	var errs []FieldError

	for name, backend := range backends {
		field := func(f string) string { return fmt.Sprintf("backends.%s.%s", name, f) }

		if backend.Type != "" {
			switch backend.Type {
			case "openai", "anthropic", "generic":
			default:
				errs = append(errs, FieldError{
					Field:   field("type"),
					Message: fmt.Sprintf("unsupported type %q (supported: openai, anthropic, generic)", backend.Type),
				})
			}
		}

		if backend.BaseURL != "" {
			if u, err := url.Parse(backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
				errs = append(errs, FieldError{
					Field:   field("base_url"),
					Message: fmt.Sprintf("invalid URL: %q", backend.BaseURL),
				})
			}
		}

		if backend.Timeout < 0 {
			errs = append(errs, FieldError{
				Field:   field("timeout"),
				Message: "timeout cannot be negative",
			})
		}
		if backend.MaxRetries < 0 {
			errs = append(errs, FieldError{
				Field:   field("max_retries"),
				Message: "max retries cannot be negative",
			})
		}
	}

	return errs
}

func validateFallback(cfg *Config) []FieldError {
	var errs []FieldError

	if len(cfg.Fallback.Order) == 0 {
		errs = append(errs, FieldError{
			Field:   "fallback.order",
			Message: "at least one backend is required",
		})
		return errs
	}

	seen := map[string]bool{}
	for _, name := range cfg.Fallback.Order {
		if seen[name] {
			errs = append(errs, FieldError{
				Field:   "fallback.order",
				Message: fmt.Sprintf("backend %q listed more than once", name),
			})
			continue
		}
		seen[name] = true

		if _, ok := cfg.Backends[name]; !ok {
			errs = append(errs, FieldError{
				Field:   "fallback.order",
				Message: fmt.Sprintf("backend %q is not configured under backends", name),
			})
		}
	}

	return errs
}

func validateCoach(c *CoachConfig) []FieldError {
	var errs []FieldError

	if c.MaxSuggestionChars < 0 {
		errs = append(errs, FieldError{
			Field:   "coach.max_suggestion_chars",
			Message: "cannot be negative",
		})
	}
	if c.MaxSentences < 0 {
		errs = append(errs, FieldError{
			Field:   "coach.max_sentences",
			Message: "cannot be negative",
		})
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		errs = append(errs, FieldError{
			Field:   "coach.temperature",
			Message: "must be between 0 and 2",
		})
	}
	if c.Variety < 0 || c.Variety > 1 {
		errs = append(errs, FieldError{
			Field:   "coach.variety",
			Message: "must be between 0 and 1",
		})
	}
	if c.RepairConfidence < 0 || c.RepairConfidence > 1 {
		errs = append(errs, FieldError{
			Field:   "coach.repair_confidence",
			Message: "must be between 0 and 1",
		})
	}

	return errs
}

func validateHealth(h *HealthConfig) []FieldError {
	var errs []FieldError

	if h.Schedule != "" {
		if _, err := cron.ParseStandard(h.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "health.schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", h.Schedule, err),
			})
		}
	}
	if h.CheckTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "health.check_timeout",
			Message: "check timeout cannot be negative",
		})
	}

	return errs
}

func validateTelemetry(t *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch t.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid level %q (valid: debug, info, warn, error)", t.Logging.Level),
		})
	}

	switch t.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid format %q (valid: json, text)", t.Logging.Format),
		})
	}

	return errs
}
