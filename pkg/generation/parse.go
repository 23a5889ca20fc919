package generation

import (
	"encoding/json"
	"regexp"
	"strings"
)

// wireResult is the JSON document every backend is instructed to
// return inside its completion text.
type wireResult struct {
	Suggestion string   `json:"suggestion"`
	Alternates []string `json:"alternates"`
	Rationale  string   `json:"rationale"`
	PolicyRefs []string `json:"policy_refs"`
	Confidence float64  `json:"confidence"`
}

var (
	// fencedJSON matches a JSON object wrapped in ```json ... ``` or
	// bare ``` ... ``` fences.
	fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

	// bareJSON matches the first object literal embedded in prose,
	// allowing one level of nesting.
	bareJSON = regexp.MustCompile(`(?s)(\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\})`)
)

// ParseResult parses a backend's raw completion text into a Result.
//
// Some backends wrap the requested JSON in code fences or surrounding
// prose even when asked for strict JSON; that quirk is absorbed here,
// inside the adapter layer, so it never reaches callers. A document
// that cannot be recovered, or one without a suggestion, is a
// GenerationError with KindParse.
func ParseResult(backend, raw string) (*Result, error) {
	wire, ok := decodeWire(raw)
	if !ok {
		return nil, &GenerationError{
			Kind:    KindParse,
			Backend: backend,
			Message: "completion text is not a parseable result document",
		}
	}

	if strings.TrimSpace(wire.Suggestion) == "" {
		return nil, &GenerationError{
			Kind:    KindParse,
			Backend: backend,
			Message: "result document has no suggestion",
		}
	}

	return &Result{
		PrimaryText:    wire.Suggestion,
		AlternateTexts: wire.Alternates,
		Rationale:      wire.Rationale,
		PolicyRefs:     wire.PolicyRefs,
		Confidence:     clampConfidence(wire.Confidence),
	}, nil
}

// decodeWire tries strict decoding first, then code-fence extraction,
// then the first embedded object literal.
func decodeWire(raw string) (*wireResult, bool) {
	trimmed := strings.TrimSpace(raw)

	var wire wireResult
	if err := json.Unmarshal([]byte(trimmed), &wire); err == nil {
		return &wire, true
	}

	if m := fencedJSON.FindStringSubmatch(trimmed); m != nil {
		if err := json.Unmarshal([]byte(m[1]), &wire); err == nil {
			return &wire, true
		}
	}

	if m := bareJSON.FindStringSubmatch(trimmed); m != nil {
		if err := json.Unmarshal([]byte(m[1]), &wire); err == nil {
			return &wire, true
		}
	}

	return nil, false
}

// clampConfidence forces a confidence value into [0, 1].
func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
