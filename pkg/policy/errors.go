package policy

import "fmt"

// ConfigError represents an invalid policy definition. It is returned by
// LoadStore and is fatal at startup; a store is never built from a
// partially valid definition list.
type ConfigError struct {
	// PolicyID is the id of the offending policy ("" when the id itself
	// is missing).
	PolicyID string

	// Field is the definition field that is invalid.
	Field string

	// Message describes the problem.
	Message string

	// Cause is the underlying error (e.g. a regexp compile error).
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.PolicyID == "" {
		return fmt.Sprintf("policy definition error for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("policy %q definition error for field %q: %s", e.PolicyID, e.Field, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}
