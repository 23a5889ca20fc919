package policy

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// redactedTokenFormat is the placeholder format for redacted values.
// Tokens are numbered sequentially per RedactPII call, starting at 1.
const redactedTokenFormat = "SENSITIVE_REDACTED_%d"

// piiPattern is one built-in sensitive-data pattern. When the pattern
// wraps the sensitive portion in a capture group, group selects it;
// group 0 uses the whole match.
type piiPattern struct {
	name  string
	re    *regexp.Regexp
	group int
}

// disclosureTrigger is a topic pattern that makes a disclosure
// mandatory when it appears in text.
type disclosureTrigger struct {
	name string
	re   *regexp.Regexp
}

// builtinPIIPatterns returns the sensitive-data patterns in specificity
// order. Earlier patterns win ties when matches overlap at the same
// offset.
func builtinPIIPatterns() []piiPattern {
	return []piiPattern{
		{
			// National identifiers: nine digits with or without
			// separators (e.g. 123-45-6789, 123456789).
			name: "national_id",
			re:   regexp.MustCompile(`\b\d{3}[- ]?\d{2}[- ]?\d{4}\b`),
		},
		{
			// Account-number-shaped runs following an account marker.
			// Only the digits are sensitive; the marker stays readable.
			name:  "account_number",
			re:    regexp.MustCompile(`(?i)\b(?:account|acct)[\s#:]*(\d{6,12})\b`),
			group: 1,
		},
	}
}

// builtinDisclosureTriggers returns the topic patterns that require a
// disclosure phrase to be present.
func builtinDisclosureTriggers() []disclosureTrigger {
	return []disclosureTrigger{
		{name: "returns", re: regexp.MustCompile(`(?i)\b(return|profit|yield|gain|earning|income)s?\b`)},
		{name: "investment", re: regexp.MustCompile(`(?i)\b(invest(?:ment)?|stock|bond|fund|portfolio)\b`)},
		{name: "risk", re: regexp.MustCompile(`(?i)\b(risk|loss|lose|volatile)\b`)},
		{name: "performance", re: regexp.MustCompile(`(?i)\b(performance|historical)\b`)},
	}
}

// piiMatch is a candidate sensitive span found in the original text.
type piiMatch struct {
	start    int
	end      int
	priority int
}

// ContainsPII reports whether any built-in sensitive-data pattern
// matches text. Empty text contains no PII.
func (e *Engine) ContainsPII(text string) bool {
	if text == "" {
		return false
	}
	for _, p := range e.pii {
		if p.re.MatchString(text) {
			return true
		}
	}
	return false
}

// RedactPII replaces every sensitive span in text with a unique
// placeholder token and returns the redacted text together with the
// ordered token-to-original mapping.
//
// The scan is a single pass over the original text: placeholders are
// never re-matched, and when candidate spans overlap the longest (then
// most specific) match wins, so one identifier is never fragmented into
// several placeholders.
func (e *Engine) RedactPII(text string) (string, RedactionMap) {
	if text == "" {
		return text, nil
	}

	matches := e.collectPIIMatches(text)
	if len(matches) == 0 {
		return text, nil
	}

	var (
		b    strings.Builder
		m    RedactionMap
		prev int
	)
	for i, match := range matches {
		token := fmt.Sprintf(redactedTokenFormat, i+1)
		b.WriteString(text[prev:match.start])
		b.WriteString(token)
		m = append(m, Redaction{Token: token, Value: text[match.start:match.end]})
		prev = match.end
	}
	b.WriteString(text[prev:])

	return b.String(), m
}

// collectPIIMatches finds all candidate spans and resolves overlaps in
// favor of the longest match, breaking ties by pattern specificity.
func (e *Engine) collectPIIMatches(text string) []piiMatch {
	var candidates []piiMatch
	for prio, p := range e.pii {
		for _, idx := range p.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := idx[0], idx[1]
			if p.group > 0 {
				start, end = idx[2*p.group], idx[2*p.group+1]
			}
			if start < 0 || end <= start {
				continue
			}
			candidates = append(candidates, piiMatch{start: start, end: end, priority: prio})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.start != b.start {
			return a.start < b.start
		}
		if la, lb := a.end-a.start, b.end-b.start; la != lb {
			return la > lb
		}
		return a.priority < b.priority
	})

	selected := candidates[:0]
	lastEnd := -1
	for _, c := range candidates {
		if c.start < lastEnd {
			continue
		}
		selected = append(selected, c)
		lastEnd = c.end
	}
	return selected
}
