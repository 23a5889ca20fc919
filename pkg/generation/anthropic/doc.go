// Package anthropic implements the generation.Client adapter for the
// Anthropic Messages API.
package anthropic
