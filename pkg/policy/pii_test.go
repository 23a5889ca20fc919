package policy

import (
	"strings"
	"testing"
)

func TestContainsPII(t *testing.T) {
	engine := testEngine(t)

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"plain text", "Thanks for reaching out, how can I help?", false},
		{"national id with dashes", "Your SSN 123-45-6789 is verified", true},
		{"national id bare", "id 123456789 on file", true},
		{"national id with spaces", "id 123 45 6789 on file", true},
		{"account number", "Your account #12345678 is ready", true},
		{"acct marker", "acct: 987654 confirmed", true},
		{"short digit run", "order 12345 shipped", false},
		{"ten digit run", "call 5551234567 today", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.ContainsPII(tt.text); got != tt.want {
				t.Errorf("ContainsPII(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestRedactPII(t *testing.T) {
	engine := testEngine(t)

	redacted, m := engine.RedactPII("Your SSN 123-45-6789 is verified")
	if redacted != "Your SSN SENSITIVE_REDACTED_1 is verified" {
		t.Errorf("redacted = %q", redacted)
	}
	if len(m) != 1 {
		t.Fatalf("map size = %d, want 1", len(m))
	}
	if m[0].Token != "SENSITIVE_REDACTED_1" || m[0].Value != "123-45-6789" {
		t.Errorf("redaction = %+v", m[0])
	}
	if m.Value("SENSITIVE_REDACTED_1") != "123-45-6789" {
		t.Error("Value() lookup failed")
	}
}

func TestRedactPIIMultiple(t *testing.T) {
	engine := testEngine(t)

	text := "SSN 111-22-3333 and account #44556677 both on file"
	redacted, m := engine.RedactPII(text)

	if len(m) != 2 {
		t.Fatalf("map = %+v, want 2 entries", m)
	}
	// Tokens are sequential in insertion (text) order.
	if m[0].Token != "SENSITIVE_REDACTED_1" || m[0].Value != "111-22-3333" {
		t.Errorf("first redaction = %+v", m[0])
	}
	if m[1].Token != "SENSITIVE_REDACTED_2" || m[1].Value != "44556677" {
		t.Errorf("second redaction = %+v", m[1])
	}

	for _, r := range m {
		if strings.Contains(redacted, r.Value) {
			t.Errorf("redacted text still contains %q", r.Value)
		}
	}
	// The account marker itself stays readable.
	if !strings.Contains(redacted, "account #") {
		t.Errorf("redacted = %q, marker should remain", redacted)
	}
}

func TestRedactPIIOverlap(t *testing.T) {
	engine := testEngine(t)

	// One identifier must become one placeholder, not fragments.
	redacted, m := engine.RedactPII("account: 123456789 closed")
	if len(m) != 1 {
		t.Fatalf("map = %+v, want a single redaction", m)
	}
	if m[0].Value != "123456789" {
		t.Errorf("value = %q, want the full digit run", m[0].Value)
	}
	if strings.Count(redacted, "SENSITIVE_REDACTED_") != 1 {
		t.Errorf("redacted = %q, want exactly one placeholder", redacted)
	}
}

func TestRedactPIINoMatches(t *testing.T) {
	engine := testEngine(t)

	text := "No sensitive data here."
	redacted, m := engine.RedactPII(text)
	if redacted != text {
		t.Errorf("redacted = %q, want unchanged", redacted)
	}
	if m != nil {
		t.Errorf("map = %+v, want nil", m)
	}

	redacted, m = engine.RedactPII("")
	if redacted != "" || m != nil {
		t.Error("empty text must redact to empty with nil map")
	}
}

func TestRedactPIISinglePass(t *testing.T) {
	engine := testEngine(t)

	// A placeholder's own digits must not be re-matched.
	redacted, _ := engine.RedactPII("ids 123-45-6789 987-65-4321")
	if strings.Count(redacted, "SENSITIVE_REDACTED_") != 2 {
		t.Errorf("redacted = %q, want two placeholders", redacted)
	}
	if strings.Contains(redacted, "123") || strings.Contains(redacted, "4321") {
		t.Errorf("redacted = %q, original digits leaked", redacted)
	}
}
