// Package factory constructs generation backend adapters from
// configuration and assembles them into an ordered fallback chain.
package factory

import (
	"fmt"
	"log/slog"
	"strings"

	"veritas-hq/coach/pkg/config"
	"veritas-hq/coach/pkg/generation"
	"veritas-hq/coach/pkg/generation/anthropic"
	"veritas-hq/coach/pkg/generation/generic"
	"veritas-hq/coach/pkg/generation/openai"
)

// ConfigsFrom maps the configuration file's backend section onto
// adapter configurations. Names are filled in from the map keys.
func ConfigsFrom(backends map[string]config.BackendConfig) map[string]generation.Config {
	configs := make(map[string]generation.Config, len(backends))
	for name, b := range backends {
		configs[name] = generation.Config{
			Name:                name,
			Type:                b.Type,
			BaseURL:             b.BaseURL,
			APIKey:              b.APIKey,
			Model:               b.Model,
			Timeout:             b.Timeout,
			MaxRetries:          b.MaxRetries,
			MaxIdleConns:        b.MaxIdleConns,
			MaxIdleConnsPerHost: b.MaxIdleConnsPerHost,
			IdleConnTimeout:     b.IdleConnTimeout,
		}
	}
	return configs
}

// NewClient creates a backend adapter from its configuration. The
// adapter type is taken from config.Type, or inferred from the name
// when unset:
//
//   - "openai"    -> OpenAI chat completions
//   - "anthropic" -> Anthropic Messages API
//   - anything else (groq, ollama, vllm, ...) -> generic
//     OpenAI-compatible
func NewClient(config generation.Config) (generation.Client, error) {
	backendType := config.Type
	if backendType == "" {
		backendType = inferType(config.Name)
		config.Type = backendType
	}

	slog.Debug("creating backend",
		"backend", config.Name,
		"type", backendType,
		"base_url", config.BaseURL,
	)

	var (
		client generation.Client
		err    error
	)
	switch backendType {
	case "openai":
		client, err = openai.New(config)
	case "anthropic":
		client, err = anthropic.New(config)
	case "generic":
		client, err = generic.New(config)
	default:
		return nil, &generation.ConfigError{
			Backend: config.Name,
			Field:   "type",
			Message: fmt.Sprintf("unsupported backend type: %q (supported: openai, anthropic, generic)", backendType),
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create backend %q: %w", config.Name, err)
	}

	return client, nil
}

// BuildChain constructs adapters for the named backends in order.
// Every name must have a configuration; on any construction error the
// already-built adapters are closed before returning.
func BuildChain(configs map[string]generation.Config, order []string) ([]generation.Client, error) {
	if len(order) == 0 {
		return nil, fmt.Errorf("backend order cannot be empty")
	}

	clients := make([]generation.Client, 0, len(order))
	for _, name := range order {
		config, ok := configs[name]
		if !ok {
			closeAll(clients)
			return nil, &generation.ConfigError{
				Backend: name,
				Field:   "backends",
				Message: "backend named in fallback order is not configured",
			}
		}
		config.Name = name

		client, err := NewClient(config)
		if err != nil {
			closeAll(clients)
			return nil, err
		}
		clients = append(clients, client)
	}

	slog.Info("backend chain built",
		"order", strings.Join(order, ","),
		"count", len(clients),
	)

	return clients, nil
}

// closeAll closes adapters built before a chain construction failure.
func closeAll(clients []generation.Client) {
	for _, c := range clients {
		_ = c.Close()
	}
}

// inferType guesses the adapter type from a backend name.
func inferType(name string) string {
	switch strings.ToLower(name) {
	case "openai":
		return "openai"
	case "anthropic":
		return "anthropic"
	default:
		return "generic"
	}
}
