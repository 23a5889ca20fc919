package policy

import (
	"fmt"
	"log/slog"
	"regexp"

	"gopkg.in/yaml.v3"
)

// definition mirrors one policy entry in the YAML definition list.
type definition struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Severity        string   `yaml:"severity"`
	Patterns        []string `yaml:"patterns"`
	RequiredPhrases []string `yaml:"required_phrases"`
	SafeTemplate    string   `yaml:"safe_template"`
}

// definitionList is the root of a policy definition document.
type definitionList struct {
	Policies []definition `yaml:"policies"`
}

// Store is an immutable, ordered set of policies. Iteration order is the
// order of the definition list. A store is read-only after LoadStore
// returns and is safe for unlimited concurrent readers.
type Store struct {
	policies []*Policy
	byID     map[string]*Policy
}

// LoadStore parses a declarative definition list into a Store.
// It returns a ConfigError on the first malformed entry: missing id,
// duplicate id, unknown severity, invalid regex, or a policy that
// declares neither patterns nor required phrases.
func LoadStore(src Source) (*Store, error) {
	data, err := src.Load()
	if err != nil {
		return nil, err
	}

	var defs definitionList
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, &ConfigError{
			Field:   "policies",
			Message: "failed to parse definition document",
			Cause:   err,
		}
	}

	store := &Store{
		policies: make([]*Policy, 0, len(defs.Policies)),
		byID:     make(map[string]*Policy, len(defs.Policies)),
	}

	for i, def := range defs.Policies {
		if def.ID == "" {
			return nil, &ConfigError{
				Field:   "id",
				Message: fmt.Sprintf("policy at index %d has no id", i),
			}
		}
		if _, exists := store.byID[def.ID]; exists {
			return nil, &ConfigError{
				PolicyID: def.ID,
				Field:    "id",
				Message:  "duplicate policy id",
			}
		}
		if len(def.Patterns) == 0 && len(def.RequiredPhrases) == 0 {
			return nil, &ConfigError{
				PolicyID: def.ID,
				Field:    "patterns",
				Message:  "policy declares neither patterns nor required_phrases",
			}
		}

		severity, err := ParseSeverity(def.Severity)
		if err != nil {
			return nil, &ConfigError{
				PolicyID: def.ID,
				Field:    "severity",
				Message:  err.Error(),
			}
		}

		p := &Policy{
			ID:              def.ID,
			Name:            def.Name,
			Severity:        severity,
			RawPatterns:     def.Patterns,
			RequiredPhrases: def.RequiredPhrases,
			SafeTemplate:    def.SafeTemplate,
		}

		for _, raw := range def.Patterns {
			// Policies match case-insensitively regardless of how the
			// pattern was written.
			re, err := regexp.Compile("(?i)" + raw)
			if err != nil {
				return nil, &ConfigError{
					PolicyID: def.ID,
					Field:    "patterns",
					Message:  fmt.Sprintf("invalid regex %q", raw),
					Cause:    err,
				}
			}
			p.Patterns = append(p.Patterns, re)
		}

		store.policies = append(store.policies, p)
		store.byID[def.ID] = p
	}

	slog.Debug("policy store loaded",
		"source", src.Describe(),
		"policy_count", len(store.policies),
	)

	return store, nil
}

// Policies returns the policies in definition order. The returned slice
// is a copy; the policies themselves are shared and must not be mutated.
func (s *Store) Policies() []*Policy {
	policies := make([]*Policy, len(s.policies))
	copy(policies, s.policies)
	return policies
}

// ByID returns the policy with the given id, or nil if unknown.
func (s *Store) ByID(id string) *Policy {
	return s.byID[id]
}

// Len returns the number of policies in the store.
func (s *Store) Len() int {
	return len(s.policies)
}
