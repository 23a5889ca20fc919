// Package generic implements the generation.Client adapter for
// OpenAI-compatible APIs: Groq, Ollama, LM Studio, vLLM and similar
// services that speak the chat completions protocol. Unlike the openai
// adapter, JSON mode is not assumed; the fence-tolerant parser carries
// the structured-output contract.
package generic
