// Package openai implements the generation.Client adapter for the
// OpenAI chat completions API. Requests are sent in JSON mode so the
// model is constrained to return the structured result document.
package openai
