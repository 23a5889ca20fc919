package coach

import (
	"regexp"
	"strings"

	"veritas-hq/coach/pkg/policy"
)

// Guardrail kinds, as logged and counted.
const (
	guardrailPIILeak      = "pii_leak"
	guardrailReViolation  = "policy_reviolation"
	guardrailLengthExceed = "length_exceeded"
)

var (
	nonDigits  = regexp.MustCompile(`\D`)
	sentenceRe = regexp.MustCompile(`[.!?]+`)
)

// leakFragments returns the substrings whose presence in generated
// text counts as leaking the redacted value: the value itself and, for
// identifier-length digit runs, the partial digit groups a backend
// might reconstruct from context (trailing 4, middle 2, leading 3).
// Known tradeoff: short digit groups can collide with ordinary numeric
// text and force a safe-template repair; recall is preferred over
// precision here.
func leakFragments(value string) []string {
	fragments := []string{value}

	digits := nonDigits.ReplaceAllString(value, "")
	if len(digits) >= 9 {
		fragments = append(fragments,
			digits[len(digits)-4:],
			digits[3:5],
			digits[:3],
		)
	} else if digits != "" && digits != value {
		fragments = append(fragments, digits)
	}

	return fragments
}

// leaksRedacted reports whether text contains any redacted value or
// partial form of it.
func leaksRedacted(text string, m policy.RedactionMap) bool {
	if text == "" || len(m) == 0 {
		return false
	}
	for _, r := range m {
		for _, frag := range leakFragments(r.Value) {
			if strings.Contains(text, frag) {
				return true
			}
		}
	}
	return false
}

// reViolated returns the ids from the original hit set that the
// candidate text still trips.
func reViolated(candidateHits []policy.PolicyHit, original map[string]bool) []string {
	var ids []string
	for _, hit := range candidateHits {
		if original[hit.PolicyID] {
			ids = append(ids, hit.PolicyID)
		}
	}
	return ids
}

// sentenceCount counts sentences by terminal punctuation runs. Text
// without terminal punctuation counts as one sentence.
func sentenceCount(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	n := len(sentenceRe.FindAllString(trimmed, -1))
	if n == 0 {
		return 1
	}
	if !sentenceRe.MatchString(string(trimmed[len(trimmed)-1])) {
		n++
	}
	return n
}

// exceedsShape reports whether text breaks the character or sentence
// ceiling.
func exceedsShape(text string, maxChars, maxSentences int) bool {
	if maxChars > 0 && len(text) > maxChars {
		return true
	}
	if maxSentences > 0 && sentenceCount(text) > maxSentences {
		return true
	}
	return false
}

// truncateShape trims text to the sentence ceiling first, then the
// character ceiling.
func truncateShape(text string, maxChars, maxSentences int) string {
	trimmed := strings.TrimSpace(text)

	if maxSentences > 0 {
		ends := sentenceRe.FindAllStringIndex(trimmed, -1)
		if len(ends) >= maxSentences {
			cut := ends[maxSentences-1][1]
			trimmed = strings.TrimSpace(trimmed[:cut])
		}
	}

	if maxChars > 0 && len(trimmed) > maxChars {
		trimmed = strings.TrimSpace(trimmed[:maxChars])
	}

	return trimmed
}

// containsAnyPhrase reports whether text contains at least one of the
// phrases, case-insensitively.
func containsAnyPhrase(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range phrases {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}
