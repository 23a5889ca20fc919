package generation

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a definitive backend failure.
type ErrorKind string

const (
	// KindAuth means the backend rejected the API key.
	KindAuth ErrorKind = "auth"

	// KindRateLimit means the backend rate limited the request.
	KindRateLimit ErrorKind = "rate_limit"

	// KindTimeout means the request exceeded the configured timeout.
	KindTimeout ErrorKind = "timeout"

	// KindParse means the raw response could not be parsed into a
	// Result, even after the adapter's internal retries.
	KindParse ErrorKind = "parse"

	// KindBadRequest means the backend rejected the request as
	// malformed; retrying the same request cannot succeed.
	KindBadRequest ErrorKind = "bad_request"

	// KindUnavailable means transient failures (network errors, 5xx)
	// persisted through all retries.
	KindUnavailable ErrorKind = "unavailable"
)

// Sentinel errors for errors.Is checks against GenerationError kinds.
var (
	ErrAuth        = errors.New("backend authentication failed")
	ErrRateLimit   = errors.New("backend rate limit exceeded")
	ErrTimeout     = errors.New("backend request timed out")
	ErrParse       = errors.New("backend response unparseable")
	ErrBadRequest  = errors.New("backend rejected request")
	ErrUnavailable = errors.New("backend unavailable")
)

// GenerationError is a definitive failure of one backend's Generate
// call. The fallback manager recovers from it by advancing to the next
// backend in the chain.
type GenerationError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Backend is the name of the backend that failed.
	Backend string

	// Message describes the failure.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("backend %q generation failed (%s): %s: %v", e.Backend, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("backend %q generation failed (%s): %s", e.Backend, e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel error corresponding to the failure kind.
func (e *GenerationError) Is(target error) bool {
	switch e.Kind {
	case KindAuth:
		return target == ErrAuth
	case KindRateLimit:
		return target == ErrRateLimit
	case KindTimeout:
		return target == ErrTimeout
	case KindParse:
		return target == ErrParse
	case KindBadRequest:
		return target == ErrBadRequest
	case KindUnavailable:
		return target == ErrUnavailable
	default:
		return false
	}
}

// ConfigError represents an invalid backend configuration.
type ConfigError struct {
	// Backend is the backend with invalid configuration.
	Backend string

	// Field is the configuration field that is invalid.
	Field string

	// Message describes the configuration error.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("backend %q configuration error for field %q: %s",
		e.Backend, e.Field, e.Message)
}
