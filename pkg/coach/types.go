package coach

import (
	"context"
	"time"

	"veritas-hq/coach/pkg/generation"
)

// Request is one coaching request.
type Request struct {
	// Draft is the agent's draft message to be checked and rewritten.
	Draft string

	// Context is surrounding conversational context used to tailor the
	// rewrite. Optional.
	Context string

	// BrandTone overrides the configured default tone instruction.
	// Optional.
	BrandTone string

	// RequiredDisclosures are phrases the caller requires in the final
	// suggestion, in addition to any demanded by hit policies.
	RequiredDisclosures []string
}

// Response is the finalized output of one Suggest call. Ownership
// passes to the caller; no state is shared between calls.
type Response struct {
	// Suggestion is the compliant replacement text.
	Suggestion string

	// Alternates are additional validated phrasings, possibly empty.
	Alternates []string

	// Rationale explains the rewrite, or which guardrail fired.
	Rationale string

	// PolicyRefs are the policy IDs the draft violated.
	PolicyRefs []string

	// Confidence is the backend's confidence in [0,1]; 1.0 for a
	// compliant draft, a fixed low value for a safe-template repair.
	Confidence float64

	// LatencyMS is the wall-clock duration of the whole call.
	LatencyMS int64

	// BackendUsed names the backend that served the text, or
	// "none (precheck)" / "none (safe template)" when no backend text
	// is returned.
	BackendUsed string

	// UsedFallback is true when a non-primary backend served the call.
	UsedFallback bool

	// UsedSafeTemplate is true when a guardrail replaced the generated
	// text with a pre-approved safe response.
	UsedSafeTemplate bool

	// RequestID uniquely identifies this call for the external event
	// logger.
	RequestID string
}

// Invoker is the slice of the fallback manager the orchestrator needs.
type Invoker interface {
	Invoke(ctx context.Context, req *generation.Request) (*generation.Result, string, error)
	Primary() string
}

// Recorder receives orchestrator telemetry. The metrics package
// implements it; a nil Recorder disables recording.
type Recorder interface {
	RecordSuggestion(outcome string, duration time.Duration)
	RecordGuardrailEvent(kind string)
	RecordPolicyHit(policyID string)
}
