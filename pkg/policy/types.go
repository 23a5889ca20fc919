package policy

import (
	"fmt"
	"regexp"
)

// Severity classifies how serious a policy violation is.
// Severities are ordered: critical > high > medium > low.
type Severity int

const (
	// SeverityLow marks stylistic or low-risk policies.
	SeverityLow Severity = iota

	// SeverityMedium marks policies with moderate compliance risk.
	SeverityMedium

	// SeverityHigh marks policies whose violation is a reportable event.
	SeverityHigh

	// SeverityCritical marks policies that must never reach a customer
	// (e.g. PII exposure).
	SeverityCritical
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// ParseSeverity parses a severity name as it appears in policy
// definitions. It returns an error for unknown names.
func ParseSeverity(name string) (Severity, error) {
	switch name {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return SeverityLow, fmt.Errorf("unknown severity %q", name)
	}
}

// Policy is a single compliance rule. Policies are immutable after load;
// identity is ID and IDs are unique within a store.
//
// A policy with Patterns is violated when any pattern matches the text.
// A policy with RequiredPhrases models a missing required disclosure: it
// is violated when none of its phrases are present.
type Policy struct {
	// ID is the unique policy identifier (e.g. "ADV-6.2").
	ID string

	// Name is the human-readable policy name.
	Name string

	// Severity is the violation severity.
	Severity Severity

	// Patterns are the compiled detection patterns. Matching is
	// case-insensitive.
	Patterns []*regexp.Regexp

	// RawPatterns keeps the pattern sources as written in the
	// definition, for logging and diagnostics.
	RawPatterns []string

	// RequiredPhrases are disclosure phrases, at least one of which must
	// appear in compliant text. Empty for pattern-only policies.
	RequiredPhrases []string

	// SafeTemplate is the pre-approved response substituted when a
	// generated rewrite for this policy fails validation. Optional.
	SafeTemplate string
}

// PolicyHit is evidence that a policy's condition matched a given text.
// Hits are derived values; they are never persisted by this package.
type PolicyHit struct {
	// PolicyID identifies the violated policy.
	PolicyID string

	// Severity is the violated policy's severity.
	Severity Severity

	// Start and End delimit the matched span in the scanned text.
	// Both are zero for missing-disclosure hits, which have no span.
	Start int
	End   int
}

// Redaction records one placeholder substitution made by RedactPII.
type Redaction struct {
	// Token is the placeholder inserted into the text
	// (e.g. "SENSITIVE_REDACTED_1").
	Token string

	// Value is the original sensitive substring the token replaced.
	Value string
}

// RedactionMap is the ordered list of substitutions from a single
// RedactPII call. It is owned by the call that created it and must be
// discarded when that call completes; redacted originals must not
// outlive the request.
type RedactionMap []Redaction

// Value returns the original substring for a placeholder token, or ""
// if the token is unknown.
func (m RedactionMap) Value(token string) string {
	for _, r := range m {
		if r.Token == token {
			return r.Value
		}
	}
	return ""
}

// Tokens returns the placeholder tokens in insertion order.
func (m RedactionMap) Tokens() []string {
	tokens := make([]string, len(m))
	for i, r := range m {
		tokens[i] = r.Token
	}
	return tokens
}
