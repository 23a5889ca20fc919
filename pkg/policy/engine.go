package policy

import (
	"log/slog"
	"strings"
	"sync/atomic"
)

// Engine evaluates text against the policy store and provides PII
// detection and redaction. The engine itself holds no per-call state;
// the only mutation it ever performs is an atomic store swap during an
// explicit reload, so all methods are safe for concurrent use.
type Engine struct {
	store atomic.Pointer[Store]

	pii        []piiPattern
	disclosure []disclosureTrigger
}

// NewEngine creates an engine over the given store.
func NewEngine(store *Store) *Engine {
	e := &Engine{
		pii:        builtinPIIPatterns(),
		disclosure: builtinDisclosureTriggers(),
	}
	e.store.Store(store)
	return e
}

// Store returns the currently active policy store.
func (e *Engine) Store() *Store {
	return e.store.Load()
}

// Reload builds a fresh store from the source and swaps it in
// atomically. On error the active store is left untouched.
func (e *Engine) Reload(src Source) error {
	store, err := LoadStore(src)
	if err != nil {
		return err
	}
	old := e.store.Swap(store)
	slog.Info("policy store reloaded",
		"source", src.Describe(),
		"policies_before", old.Len(),
		"policies_after", store.Len(),
	)
	return nil
}

// FindPolicyHits evaluates every policy against text and returns the
// violations found, in store order, at most one hit per policy.
//
// Pattern policies hit when any pattern matches (case-insensitive).
// Required-phrase policies model a missing mandatory disclosure: they
// hit when none of their phrases are present. Empty text yields no hits.
func (e *Engine) FindPolicyHits(text string) []PolicyHit {
	if text == "" {
		return nil
	}

	store := e.Store()
	lower := strings.ToLower(text)

	var hits []PolicyHit
	for _, p := range store.policies {
		if hit, ok := evaluatePolicy(p, text, lower); ok {
			hits = append(hits, hit)
		}
	}
	return hits
}

// evaluatePolicy checks one policy against text. lower is the
// pre-lowered text used for phrase containment.
func evaluatePolicy(p *Policy, text, lower string) (PolicyHit, bool) {
	for _, re := range p.Patterns {
		if loc := re.FindStringIndex(text); loc != nil {
			return PolicyHit{
				PolicyID: p.ID,
				Severity: p.Severity,
				Start:    loc[0],
				End:      loc[1],
			}, true
		}
	}

	if len(p.RequiredPhrases) > 0 && !anyPhrasePresent(lower, p.RequiredPhrases) {
		// Missing-disclosure hits carry no span.
		return PolicyHit{PolicyID: p.ID, Severity: p.Severity}, true
	}

	return PolicyHit{}, false
}

// anyPhrasePresent reports whether lower contains any of the phrases,
// case-insensitively.
func anyPhrasePresent(lower string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

// PolicyByID returns the policy with the given id from the active
// store, or nil if unknown.
func (e *Engine) PolicyByID(id string) *Policy {
	return e.Store().ByID(id)
}

// RequiresDisclosure reports whether text discusses topics that trigger
// a mandatory disclosure (returns, investments, risk, performance).
func (e *Engine) RequiresDisclosure(text string) bool {
	for _, t := range e.disclosure {
		if t.re.MatchString(text) {
			return true
		}
	}
	return false
}

// HasDisclosure reports whether text satisfies every required-phrase
// policy in the active store, i.e. contains at least one phrase from
// each. A store with no required-phrase policies is vacuously satisfied.
func (e *Engine) HasDisclosure(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range e.Store().policies {
		if len(p.RequiredPhrases) == 0 {
			continue
		}
		if !anyPhrasePresent(lower, p.RequiredPhrases) {
			return false
		}
	}
	return true
}

// DisclosurePhrases returns the required phrases of all required-phrase
// policies, in store order.
func (e *Engine) DisclosurePhrases() []string {
	var phrases []string
	for _, p := range e.Store().policies {
		phrases = append(phrases, p.RequiredPhrases...)
	}
	return phrases
}
