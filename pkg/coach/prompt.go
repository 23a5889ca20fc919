package coach

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/template"
)

// builtinTemplate is the last-resort system prompt, used when no
// configured template file is readable.
const builtinTemplate = `You are a compliance coaching assistant for customer-facing support agents.
Rewrite the agent's draft so it is fully compliant with the violated policies while keeping the customer-facing intent.
Tone: {{.BrandTone}}.
Respond with a single JSON object with these fields:
"suggestion" (the rewritten message), "alternates" (up to two alternative phrasings), "rationale" (one sentence explaining the rewrite), "policy_refs" (the policy ids addressed), "confidence" (0.0-1.0).
Return only the JSON object, no surrounding prose.`

// resolveTemplate resolves the active system prompt template once, at
// construction. Paths are tried in order and the first readable file
// wins; the built-in template is the implicit final entry.
func resolveTemplate(paths []string) (*template.Template, error) {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Debug("prompt template not readable, trying next", "path", path, "error", err)
			continue
		}
		tmpl, err := template.New("system").Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse prompt template %q: %w", path, err)
		}
		slog.Info("prompt template resolved", "path", path)
		return tmpl, nil
	}

	tmpl, err := template.New("system").Parse(builtinTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in prompt template: %w", err)
	}
	return tmpl, nil
}

// promptData feeds the system prompt template.
type promptData struct {
	BrandTone string
}

// renderSystem renders the system instructions for one call.
func (c *Coach) renderSystem(brandTone string) (string, error) {
	if brandTone == "" {
		brandTone = c.cfg.BrandTone
	}
	if brandTone == "" {
		brandTone = "professional and helpful"
	}

	var b strings.Builder
	if err := c.tmpl.Execute(&b, promptData{BrandTone: brandTone}); err != nil {
		return "", fmt.Errorf("failed to render prompt template: %w", err)
	}
	return b.String(), nil
}

// buildUserPayload assembles the user payload: the redacted draft, the
// violated policy ids, the disclosure phrases the rewrite must carry, a
// placeholder warning when redaction occurred, and the conversational
// context as an explicit tailoring instruction.
func buildUserPayload(redactedDraft string, policyIDs, requiredPhrases []string, redacted bool, context string) string {
	var b strings.Builder

	b.WriteString("Draft message:\n")
	b.WriteString(redactedDraft)
	b.WriteString("\n\nViolated policies: ")
	b.WriteString(strings.Join(policyIDs, ", "))

	if len(requiredPhrases) > 0 {
		b.WriteString("\n\nThe rewrite must include at least one of these required disclosure phrases verbatim:\n")
		for _, phrase := range requiredPhrases {
			b.WriteString("- ")
			b.WriteString(phrase)
			b.WriteString("\n")
		}
	}

	if redacted {
		b.WriteString("\nTokens of the form SENSITIVE_REDACTED_<n> replace removed sensitive data. ")
		b.WriteString("Never repeat these tokens or reconstruct any digits of the removed values; omit them entirely.")
	}

	if context != "" {
		b.WriteString("\n\nConversation context, for phrasing only:\n")
		b.WriteString(context)
		b.WriteString("\nTailor the wording to this conversation instead of producing a generic rewrite.")
	}

	return b.String()
}
