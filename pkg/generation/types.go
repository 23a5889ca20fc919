package generation

import (
	"context"
	"time"
)

// Request is a backend-agnostic generation request. It is a value
// object: build it once and do not mutate it afterwards. Adapters
// transform it to their wire format.
type Request struct {
	// SystemInstructions is the system prompt establishing the
	// backend's role and output contract.
	SystemInstructions string

	// UserPayload is the user-turn content.
	UserPayload string

	// Temperature controls sampling randomness (0.0 to 1.0).
	Temperature float64

	// MaxOutputTokens caps the generated output length.
	MaxOutputTokens int
}

// Result is the parsed structured output of a backend call. Every
// adapter must produce a Result from the backend's raw text; a raw
// response that cannot be parsed is a GenerationError with KindParse,
// never a partially filled Result.
type Result struct {
	// PrimaryText is the main generated suggestion.
	PrimaryText string

	// AlternateTexts are additional suggestion variants, possibly empty.
	AlternateTexts []string

	// Rationale explains why the text was written this way.
	Rationale string

	// PolicyRefs are the policy ids the backend claims to have
	// addressed.
	PolicyRefs []string

	// Confidence is the backend's self-reported confidence in [0, 1].
	Confidence float64
}

// Client is the uniform interface implemented by every generation
// backend adapter. Generate is a potentially multi-second blocking
// operation; the per-backend timeout is enforced inside the adapter.
type Client interface {
	// Generate performs one generation call. On definitive failure
	// (auth rejection, rate limit, exhausted retries, unparseable
	// response, timeout) it returns a GenerationError.
	Generate(ctx context.Context, req *Request) (*Result, error)

	// Name returns the backend's configured name.
	Name() string

	// HealthCheck verifies the backend is reachable and responding.
	HealthCheck(ctx context.Context) error

	// Close releases the adapter's resources.
	Close() error
}

// Config configures a single backend adapter.
type Config struct {
	// Name is the backend identifier used in fallback ordering and
	// logging (e.g. "openai", "groq").
	Name string

	// Type selects the adapter ("openai", "anthropic", "generic").
	// When empty the factory infers it from Name.
	Type string

	// BaseURL is the API endpoint base URL.
	BaseURL string

	// APIKey authenticates requests.
	APIKey string

	// Model is the model identifier sent on the wire.
	Model string

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration

	// MaxRetries bounds retries of transient errors within one
	// Generate call.
	MaxRetries int

	// Connection pool tuning.
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}

// Health is a snapshot of a backend's health bookkeeping.
type Health struct {
	// Healthy is the current health verdict.
	Healthy bool

	// LastCheck is when health was last updated.
	LastCheck time.Time

	// LastError is the most recent failure (nil when healthy).
	LastError error

	// ConsecutiveFailures counts sequential failures.
	ConsecutiveFailures int

	// TotalRequests and FailedRequests count lifetime requests.
	TotalRequests  int64
	FailedRequests int64
}
