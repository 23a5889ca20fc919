// Package fallback provides ordered failover across generation
// backends. A Manager holds a fixed chain of backends and tries each
// one exactly once per invocation, in configuration order, returning
// the first success. When every backend fails, the caller receives an
// AllBackendsFailedError carrying the per-backend attempt errors.
//
// The chain is deliberately stateless between invocations: a backend
// that failed last time is still tried first next time. Health
// bookkeeping lives in the adapters and the scheduled sweep, not here.
package fallback
