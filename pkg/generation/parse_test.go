package generation

import (
	"errors"
	"testing"
)

func TestParseResult(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantPrimary    string
		wantAlternates int
		wantConfidence float64
	}{
		{
			name:           "strict json",
			raw:            `{"suggestion": "Hello there.", "alternates": ["Hi."], "rationale": "friendlier", "policy_refs": ["TONE-2.1"], "confidence": 0.9}`,
			wantPrimary:    "Hello there.",
			wantAlternates: 1,
			wantConfidence: 0.9,
		},
		{
			name:        "json code fence",
			raw:         "Here is the rewrite:\n```json\n{\"suggestion\": \"Fenced.\", \"confidence\": 0.5}\n```\nHope that helps!",
			wantPrimary: "Fenced.",

			wantConfidence: 0.5,
		},
		{
			name:           "bare fence",
			raw:            "```\n{\"suggestion\": \"Bare fence.\"}\n```",
			wantPrimary:    "Bare fence.",
			wantConfidence: 0,
		},
		{
			name:           "object embedded in prose",
			raw:            `Sure! {"suggestion": "Embedded.", "confidence": 0.7} Let me know.`,
			wantPrimary:    "Embedded.",
			wantConfidence: 0.7,
		},
		{
			name:           "confidence clamped high",
			raw:            `{"suggestion": "Clamped.", "confidence": 3.5}`,
			wantPrimary:    "Clamped.",
			wantConfidence: 1,
		},
		{
			name:           "confidence clamped low",
			raw:            `{"suggestion": "Clamped.", "confidence": -1}`,
			wantPrimary:    "Clamped.",
			wantConfidence: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseResult("test-backend", tt.raw)
			if err != nil {
				t.Fatalf("ParseResult() error = %v", err)
			}
			if result.PrimaryText != tt.wantPrimary {
				t.Errorf("PrimaryText = %q, want %q", result.PrimaryText, tt.wantPrimary)
			}
			if len(result.AlternateTexts) != tt.wantAlternates {
				t.Errorf("alternates = %d, want %d", len(result.AlternateTexts), tt.wantAlternates)
			}
			if result.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", result.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestParseResultErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"prose only", "I cannot produce JSON, sorry."},
		{"empty suggestion", `{"suggestion": "  ", "confidence": 0.8}`},
		{"no object", "```json\nnot an object\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResult("test-backend", tt.raw)
			if err == nil {
				t.Fatal("ParseResult() succeeded, want parse error")
			}

			var genErr *GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("error type = %T, want *GenerationError", err)
			}
			if genErr.Kind != KindParse {
				t.Errorf("Kind = %q, want parse", genErr.Kind)
			}
			if genErr.Backend != "test-backend" {
				t.Errorf("Backend = %q", genErr.Backend)
			}
			if !errors.Is(err, ErrParse) {
				t.Error("errors.Is(err, ErrParse) = false")
			}
		})
	}
}
