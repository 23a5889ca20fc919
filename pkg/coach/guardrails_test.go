package coach

import (
	"testing"

	"veritas-hq/coach/pkg/policy"
)

func TestLeakFragments(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{
			name:  "nine digit identifier",
			value: "123-45-6789",
			want:  []string{"123-45-6789", "6789", "45", "123"},
		},
		{
			name:  "bare digit run",
			value: "987654321",
			want:  []string{"987654321", "4321", "65", "987"},
		},
		{
			name:  "short account with separators",
			value: "12-3456",
			want:  []string{"12-3456", "123456"},
		},
		{
			name:  "no digits",
			value: "secret",
			want:  []string{"secret"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := leakFragments(tt.value)
			if len(got) != len(tt.want) {
				t.Fatalf("fragments = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("fragment[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLeaksRedacted(t *testing.T) {
	m := policy.RedactionMap{
		{Token: "SENSITIVE_REDACTED_1", Value: "123-45-6789"},
	}

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"clean text", "Happy to help with your account.", false},
		{"full value", "Your 123-45-6789 checks out.", true},
		{"last four", "The one ending in 6789.", true},
		{"first three", "Starting with 123 as noted.", true},
		{"empty text", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := leaksRedacted(tt.text, m); got != tt.want {
				t.Errorf("leaksRedacted(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}

	if leaksRedacted("anything 123", nil) {
		t.Error("empty redaction map should never leak")
	}
}

func TestSentenceCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"No terminal punctuation", 1},
		{"One sentence.", 1},
		{"Two! Sentences?", 2},
		{"Ellipsis... still one run.", 2},
		{"Trailing fragment. after the period", 2},
	}

	for _, tt := range tests {
		if got := sentenceCount(tt.text); got != tt.want {
			t.Errorf("sentenceCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestTruncateShape(t *testing.T) {
	text := "First sentence here. Second sentence here. Third sentence here."

	got := truncateShape(text, 240, 2)
	if got != "First sentence here. Second sentence here." {
		t.Errorf("truncateShape() = %q", got)
	}

	got = truncateShape(text, 10, 0)
	if got != "First sent" {
		t.Errorf("char truncation = %q", got)
	}

	if exceedsShape("Short and sweet.", 240, 2) {
		t.Error("short text should not exceed shape")
	}
	if !exceedsShape(text, 240, 2) {
		t.Error("three sentences should exceed a two sentence ceiling")
	}
}

func TestContainsAnyPhrase(t *testing.T) {
	phrases := []string{"investments carry risk", "past performance"}

	if !containsAnyPhrase("Remember that INVESTMENTS CARRY RISK.", phrases) {
		t.Error("case-insensitive match failed")
	}
	if containsAnyPhrase("Totally unrelated text.", phrases) {
		t.Error("unexpected match")
	}
	if containsAnyPhrase("anything", nil) {
		t.Error("empty phrase list should not match")
	}
}

func TestReViolated(t *testing.T) {
	original := map[string]bool{"ADV-6.2": true}
	hits := []policy.PolicyHit{
		{PolicyID: "ADV-6.2"},
		{PolicyID: "TONE-2.1"},
	}

	ids := reViolated(hits, original)
	if len(ids) != 1 || ids[0] != "ADV-6.2" {
		t.Errorf("reViolated() = %v, want [ADV-6.2]", ids)
	}

	// Fresh violations outside the original set are not re-violations.
	if ids := reViolated([]policy.PolicyHit{{PolicyID: "TONE-2.1"}}, original); len(ids) != 0 {
		t.Errorf("reViolated() = %v, want none", ids)
	}
}
