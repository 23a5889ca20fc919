// Package coach implements the coaching orchestrator: the top-level
// entry point that turns a risky draft message into a policy-compliant
// suggestion.
//
// A Suggest call walks a fixed sequence: precheck the draft against
// the policy engine (a compliant draft short-circuits without any
// backend call), redact PII, build the generation prompt, invoke the
// fallback chain, then validate the generated text against leakage,
// re-violation and length guardrails. A suggestion that fails
// validation is replaced by the pre-approved safe template of the most
// severe violated policy; guardrail interventions are logged and
// counted but never surfaced as errors.
//
// Example usage:
//
//	c, err := coach.New(engine, manager, coach.Config{BrandTone: "warm, professional"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := c.Suggest(ctx, &coach.Request{Draft: draft})
package coach
