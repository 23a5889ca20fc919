package policy

import (
	"errors"
	"testing"
)

const validDefinitions = `
policies:
  - id: ADV-6.2
    name: No guaranteed returns
    severity: high
    patterns:
      - 'guarantee.*returns'
      - 'risk[- ]free'
    safe_template: "Past performance does not guarantee future results."
  - id: DISC-1.1
    name: Investment risk disclosure
    severity: medium
    required_phrases:
      - 'investments carry risk'
      - 'past performance does not guarantee'
  - id: TONE-2.1
    name: No pressure language
    severity: low
    patterns:
      - 'act now'
      - 'limited time'
`

func TestLoadStore(t *testing.T) {
	store, err := LoadStore(NewMemorySource([]byte(validDefinitions)))
	if err != nil {
		t.Fatalf("LoadStore() error = %v", err)
	}

	if store.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", store.Len())
	}

	// Definition order is preserved.
	ids := []string{"ADV-6.2", "DISC-1.1", "TONE-2.1"}
	for i, p := range store.Policies() {
		if p.ID != ids[i] {
			t.Errorf("policy[%d].ID = %q, want %q", i, p.ID, ids[i])
		}
	}

	adv := store.ByID("ADV-6.2")
	if adv == nil {
		t.Fatal("ByID(ADV-6.2) = nil")
	}
	if adv.Severity != SeverityHigh {
		t.Errorf("severity = %v, want high", adv.Severity)
	}
	if len(adv.Patterns) != 2 {
		t.Errorf("compiled patterns = %d, want 2", len(adv.Patterns))
	}
	if adv.SafeTemplate == "" {
		t.Error("safe template not loaded")
	}

	if store.ByID("NOPE") != nil {
		t.Error("ByID(NOPE) should be nil")
	}
}

func TestLoadStoreErrors(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		policyID string
		field    string
	}{
		{
			name: "missing id",
			yaml: `
policies:
  - name: anonymous
    severity: low
    patterns: ['x']
`,
			field: "id",
		},
		{
			name: "duplicate id",
			yaml: `
policies:
  - id: DUP-1
    severity: low
    patterns: ['x']
  - id: DUP-1
    severity: low
    patterns: ['y']
`,
			policyID: "DUP-1",
			field:    "id",
		},
		{
			name: "unknown severity",
			yaml: `
policies:
  - id: SEV-1
    severity: catastrophic
    patterns: ['x']
`,
			policyID: "SEV-1",
			field:    "severity",
		},
		{
			name: "invalid regex",
			yaml: `
policies:
  - id: RE-1
    severity: low
    patterns: ['[unclosed']
`,
			policyID: "RE-1",
			field:    "patterns",
		},
		{
			name: "neither patterns nor phrases",
			yaml: `
policies:
  - id: EMPTY-1
    severity: low
`,
			policyID: "EMPTY-1",
			field:    "patterns",
		},
		{
			name:  "malformed document",
			yaml:  "policies: [”",
			field: "policies",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadStore(NewMemorySource([]byte(tt.yaml)))
			if err == nil {
				t.Fatal("LoadStore() succeeded, want ConfigError")
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error type = %T, want *ConfigError", err)
			}
			if cfgErr.PolicyID != tt.policyID {
				t.Errorf("PolicyID = %q, want %q", cfgErr.PolicyID, tt.policyID)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestLoadStoreSourceError(t *testing.T) {
	_, err := LoadStore(NewFileSource("/nonexistent/policies.yaml"))
	if err == nil {
		t.Fatal("LoadStore() succeeded for missing file")
	}
}
