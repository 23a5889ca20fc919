package coach

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"veritas-hq/coach/pkg/generation"
	"veritas-hq/coach/pkg/policy"
)

// BackendUsed values when no backend text is served.
const (
	BackendNonePrecheck     = "none (precheck)"
	BackendNoneSafeTemplate = "none (safe template)"
)

// defaultSafeTemplate is substituted when the most severe violated
// policy carries no safe template of its own.
const defaultSafeTemplate = "Thanks for reaching out. I want to make sure I give you accurate information, so let me connect you with a specialist who can help with this."

// Suggestion outcomes, as recorded.
const (
	outcomeGenerated    = "generated"
	outcomePrecheck     = "precheck"
	outcomeSafeTemplate = "safe_template"
	outcomeFailed       = "failed"
)

// Config tunes the orchestrator.
type Config struct {
	// BrandTone is the default tone instruction.
	BrandTone string

	// MaxSuggestionChars and MaxSentences are the hard shape ceiling.
	MaxSuggestionChars int
	MaxSentences       int

	// Temperature and MaxOutputTokens are passed to the backend.
	Temperature     float64
	MaxOutputTokens int

	// RepairConfidence is reported when a safe template is served.
	RepairConfidence float64

	// Variety is the probability of rotating to an alternate phrasing
	// when distinct alternates exist.
	Variety float64

	// PromptTemplates are template file paths tried in order at
	// construction; the built-in template is the implicit last entry.
	PromptTemplates []string
}

func (c *Config) applyDefaults() {
	if c.MaxSuggestionChars == 0 {
		c.MaxSuggestionChars = 240
	}
	if c.MaxSentences == 0 {
		c.MaxSentences = 2
	}
	if c.Temperature == 0 {
		c.Temperature = 0.4
	}
	if c.MaxOutputTokens == 0 {
		c.MaxOutputTokens = 512
	}
	if c.RepairConfidence == 0 {
		c.RepairConfidence = 0.35
	}
	if c.Variety == 0 {
		c.Variety = 0.6
	}
}

// Coach is the coaching orchestrator. Each Suggest call is independent;
// the Coach holds no per-call state and is safe for concurrent use.
type Coach struct {
	engine   *policy.Engine
	invoker  Invoker
	cfg      Config
	tmpl     *template.Template
	recorder Recorder
	logger   *slog.Logger

	// roll returns a uniform value in [0,1); injectable for tests.
	roll func() float64
}

// Option configures a Coach.
type Option func(*Coach)

// WithRecorder attaches orchestrator telemetry.
func WithRecorder(r Recorder) Option {
	return func(c *Coach) { c.recorder = r }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coach) { c.logger = l }
}

// withRoll fixes the variety roll, for deterministic tests.
func withRoll(roll func() float64) Option {
	return func(c *Coach) { c.roll = roll }
}

// New creates a Coach over a policy engine and a fallback invoker.
func New(engine *policy.Engine, invoker Invoker, cfg Config, opts ...Option) (*Coach, error) {
	if engine == nil {
		return nil, fmt.Errorf("policy engine is required")
	}
	if invoker == nil {
		return nil, fmt.Errorf("fallback invoker is required")
	}
	cfg.applyDefaults()

	tmpl, err := resolveTemplate(cfg.PromptTemplates)
	if err != nil {
		return nil, err
	}

	c := &Coach{
		engine:  engine,
		invoker: invoker,
		cfg:     cfg,
		tmpl:    tmpl,
		logger:  slog.Default().With("component", "coach"),
		roll:    rand.Float64,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Suggest turns a draft into a compliant suggestion. A compliant draft
// returns unchanged with confidence 1.0 and no backend call; a draft
// with violations is redacted, rewritten by the fallback chain, and
// validated. Guardrail failures substitute a safe template and are
// never errors; only total backend exhaustion is surfaced as an error.
func (c *Coach) Suggest(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()
	requestID := uuid.NewString()
	logger := c.logger.With("request_id", requestID)

	// PRECHECK
	hits := c.engine.FindPolicyHits(req.Draft)
	for _, hit := range hits {
		logger.Info("policy hit",
			"policy_id", hit.PolicyID,
			"severity", hit.Severity.String(),
		)
		if c.recorder != nil {
			c.recorder.RecordPolicyHit(hit.PolicyID)
		}
	}
	if len(hits) == 0 {
		return c.finish(&Response{
			Suggestion:  req.Draft,
			Rationale:   "Draft is compliant as written.",
			Confidence:  1.0,
			BackendUsed: BackendNonePrecheck,
			RequestID:   requestID,
		}, outcomePrecheck, start), nil
	}

	policyIDs := make([]string, len(hits))
	hitSet := make(map[string]bool, len(hits))
	for i, hit := range hits {
		policyIDs[i] = hit.PolicyID
		hitSet[hit.PolicyID] = true
	}
	phraseGroups := c.phraseGroups(req, hits)

	// REDACT
	redactedDraft, redactions := c.engine.RedactPII(req.Draft)
	if len(redactions) > 0 {
		logger.Info("draft redacted", "placeholders", len(redactions))
	}

	// BUILD_PROMPT
	system, err := c.renderSystem(req.BrandTone)
	if err != nil {
		return nil, err
	}
	genReq := &generation.Request{
		SystemInstructions: system,
		UserPayload:        buildUserPayload(redactedDraft, policyIDs, flattenGroups(phraseGroups), len(redactions) > 0, req.Context),
		Temperature:        c.cfg.Temperature,
		MaxOutputTokens:    c.cfg.MaxOutputTokens,
	}

	// GENERATE
	result, backend, err := c.invoker.Invoke(ctx, genReq)
	if err != nil {
		if c.recorder != nil {
			c.recorder.RecordSuggestion(outcomeFailed, time.Since(start))
		}
		logger.Error("generation exhausted all backends", "error", err)
		return nil, err
	}

	// VALIDATE
	if c.leaks(result, redactions, logger) {
		return c.finish(c.repair(hits, policyIDs, phraseGroups, guardrailPIILeak, requestID), outcomeSafeTemplate, start), nil
	}

	chosen, ok := c.selectCandidate(result, hitSet, phraseGroups, logger)
	if !ok {
		return c.finish(c.repair(hits, policyIDs, phraseGroups, guardrailReViolation, requestID), outcomeSafeTemplate, start), nil
	}

	suggestion := c.enforceShape(chosen, logger)
	suggestion = c.ensureDisclosure(suggestion, phraseGroups)

	resp := &Response{
		Suggestion:   suggestion,
		Alternates:   c.validAlternates(result, suggestion, hitSet, redactions, phraseGroups),
		Rationale:    result.Rationale,
		PolicyRefs:   policyIDs,
		Confidence:   result.Confidence,
		BackendUsed:  backend,
		UsedFallback: backend != c.invoker.Primary(),
		RequestID:    requestID,
	}
	return c.finish(resp, outcomeGenerated, start), nil
}

// phraseGroups merges caller-required disclosures with the phrases
// demanded by hit required-phrase policies, in hit order. Each group is
// satisfied by any one of its members: a caller disclosure is a group
// of one and must appear itself, while a policy's phrase list mirrors
// the engine's any-of evaluation.
func (c *Coach) phraseGroups(req *Request, hits []policy.PolicyHit) [][]string {
	var groups [][]string
	for _, d := range req.RequiredDisclosures {
		groups = append(groups, []string{d})
	}
	for _, hit := range hits {
		p := c.engine.PolicyByID(hit.PolicyID)
		if p != nil && len(p.RequiredPhrases) > 0 {
			groups = append(groups, p.RequiredPhrases)
		}
	}
	return groups
}

func flattenGroups(groups [][]string) []string {
	var phrases []string
	for _, group := range groups {
		phrases = append(phrases, group...)
	}
	return phrases
}

// leaks checks the primary text and every alternate for redacted
// values or their partial forms. Any leak discards the whole result.
func (c *Coach) leaks(result *generation.Result, redactions policy.RedactionMap, logger *slog.Logger) bool {
	texts := append([]string{result.PrimaryText}, result.AlternateTexts...)
	for _, text := range texts {
		if leaksRedacted(text, redactions) {
			logger.Warn("guardrail fired", "kind", guardrailPIILeak)
			if c.recorder != nil {
				c.recorder.RecordGuardrailEvent(guardrailPIILeak)
			}
			return true
		}
	}
	return false
}

// selectCandidate picks the suggestion text. Candidates are the primary
// text plus distinct alternates; a variety roll may rotate an alternate
// to the front so identical violations do not always yield identical
// text. Missing disclosures are injected before judging, so a rewrite
// is only rejected for violations an appended phrase cannot cure. Each
// candidate must then clear the re-violation check; candidates that
// still trip an original policy id are skipped.
func (c *Coach) selectCandidate(result *generation.Result, hitSet map[string]bool, phraseGroups [][]string, logger *slog.Logger) (string, bool) {
	candidates := []string{result.PrimaryText}
	for _, alt := range result.AlternateTexts {
		if alt != "" && alt != result.PrimaryText {
			candidates = append(candidates, alt)
		}
	}

	if len(candidates) > 1 && c.roll() < c.cfg.Variety {
		i := int(c.roll() * float64(len(candidates)))
		if i >= len(candidates) {
			i = len(candidates) - 1
		}
		candidates[0], candidates[i] = candidates[i], candidates[0]
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		candidate = c.ensureDisclosure(candidate, phraseGroups)
		if ids := reViolated(c.engine.FindPolicyHits(candidate), hitSet); len(ids) > 0 {
			logger.Warn("guardrail fired",
				"kind", guardrailReViolation,
				"policy_ids", strings.Join(ids, ","),
			)
			if c.recorder != nil {
				c.recorder.RecordGuardrailEvent(guardrailReViolation)
			}
			continue
		}
		return candidate, true
	}
	return "", false
}

// enforceShape truncates text that breaks the character or sentence
// ceiling.
func (c *Coach) enforceShape(text string, logger *slog.Logger) string {
	if !exceedsShape(text, c.cfg.MaxSuggestionChars, c.cfg.MaxSentences) {
		return text
	}
	logger.Warn("guardrail fired", "kind", guardrailLengthExceed, "chars", len(text))
	if c.recorder != nil {
		c.recorder.RecordGuardrailEvent(guardrailLengthExceed)
	}
	return truncateShape(text, c.cfg.MaxSuggestionChars, c.cfg.MaxSentences)
}

// ensureDisclosure appends, for each unsatisfied phrase group, the
// group's first phrase verbatim.
func (c *Coach) ensureDisclosure(text string, phraseGroups [][]string) string {
	for _, group := range phraseGroups {
		if len(group) == 0 || containsAnyPhrase(text, group) {
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" && !strings.ContainsAny(text[len(text)-1:], ".!?") {
			text += "."
		}
		text += " " + group[0]
	}
	return text
}

// validAlternates returns the result's alternates that are safe to
// expose: distinct from the suggestion, free of redacted values, clear
// of the original violations after disclosure injection, and within the
// shape ceiling.
func (c *Coach) validAlternates(result *generation.Result, suggestion string, hitSet map[string]bool, redactions policy.RedactionMap, phraseGroups [][]string) []string {
	var alternates []string
	for _, alt := range append([]string{result.PrimaryText}, result.AlternateTexts...) {
		if alt == "" {
			continue
		}
		if leaksRedacted(alt, redactions) {
			continue
		}
		alt = c.ensureDisclosure(alt, phraseGroups)
		if alt == suggestion {
			continue
		}
		if len(reViolated(c.engine.FindPolicyHits(alt), hitSet)) > 0 {
			continue
		}
		if exceedsShape(alt, c.cfg.MaxSuggestionChars, c.cfg.MaxSentences) {
			continue
		}
		alternates = append(alternates, alt)
	}
	return alternates
}

// repair substitutes the safe template of the most severe violated
// policy. The template is final: no generation call is retried.
func (c *Coach) repair(hits []policy.PolicyHit, policyIDs []string, phraseGroups [][]string, guardrail, requestID string) *Response {
	worst := hits[0]
	for _, hit := range hits[1:] {
		if hit.Severity > worst.Severity {
			worst = hit
		}
	}

	template := defaultSafeTemplate
	if p := c.engine.PolicyByID(worst.PolicyID); p != nil && p.SafeTemplate != "" {
		template = p.SafeTemplate
	}

	suggestion := c.ensureDisclosure(template, phraseGroups)

	return &Response{
		Suggestion:       suggestion,
		Rationale:        fmt.Sprintf("Generated text failed the %s guardrail; serving the pre-approved safe response for policy %s.", guardrail, worst.PolicyID),
		PolicyRefs:       policyIDs,
		Confidence:       c.cfg.RepairConfidence,
		BackendUsed:      BackendNoneSafeTemplate,
		UsedSafeTemplate: true,
		RequestID:        requestID,
	}
}

// finish stamps latency, records the outcome and logs completion.
func (c *Coach) finish(resp *Response, outcome string, start time.Time) *Response {
	elapsed := time.Since(start)
	resp.LatencyMS = elapsed.Milliseconds()

	if c.recorder != nil {
		c.recorder.RecordSuggestion(outcome, elapsed)
	}
	c.logger.Info("suggestion completed",
		"request_id", resp.RequestID,
		"outcome", outcome,
		"backend", resp.BackendUsed,
		"policy_refs", strings.Join(resp.PolicyRefs, ","),
		"latency_ms", resp.LatencyMS,
	)
	return resp
}
