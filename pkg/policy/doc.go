// Package policy implements the policy store and rule engine.
//
// Policies are declarative compliance rules loaded once from a YAML
// source. Each policy carries detection patterns and/or required
// disclosure phrases plus a pre-approved safe template used when a
// generated rewrite has to be replaced.
//
// The store is immutable after load and safe for unlimited concurrent
// readers. The engine scans free text for policy violations and exposes
// PII detection and single-pass PII redaction over the same pattern
// family.
//
// # Loading
//
//	store, err := policy.LoadStore(policy.NewFileSource("policies.yaml"))
//	if err != nil {
//	    return err // ConfigError: fatal at startup
//	}
//	engine := policy.NewEngine(store)
//
// # Scanning
//
//	hits := engine.FindPolicyHits(draft)
//	redacted, redactions := engine.RedactPII(draft)
//
// An optional Watcher rebuilds the store when the definition file
// changes and swaps it atomically; readers never observe a partially
// loaded store.
package policy
