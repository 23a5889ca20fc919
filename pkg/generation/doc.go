// Package generation defines the uniform abstraction over text
// generation backends.
//
// A backend is anything that can turn a GenerationRequest into a
// structured Result via a single call: OpenAI, Anthropic, or any
// OpenAI-compatible service (Groq, Ollama, vLLM). Adapters live in the
// openai, anthropic and generic subpackages and are constructed through
// the factory subpackage.
//
// Each adapter owns its wire format, enforces a parseable structured
// response, retries its own transient errors with backoff, and reports
// definitive failure as a GenerationError. Adapters never return
// partial or default data; failure is always explicit.
package generation
