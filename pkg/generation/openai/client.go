package openai

import (
	"context"
	"fmt"
	"log/slog"

	"veritas-hq/coach/pkg/generation"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

// Client is the OpenAI backend adapter.
type Client struct {
	*generation.HTTPClient

	model string
}

// New creates an OpenAI backend adapter.
func New(config generation.Config) (*Client, error) {
	if config.Name == "" {
		return nil, &generation.ConfigError{
			Backend: "openai",
			Field:   "name",
			Message: "backend name is required",
		}
	}
	if config.APIKey == "" {
		return nil, &generation.ConfigError{
			Backend: config.Name,
			Field:   "api_key",
			Message: "API key is required for OpenAI",
		}
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	applyTransportDefaults(&config)

	c := &Client{
		HTTPClient: generation.NewHTTPClient(config),
		model:      config.Model,
	}

	slog.Info("OpenAI backend initialized",
		"backend", config.Name,
		"base_url", config.BaseURL,
		"model", config.Model,
	)

	return c, nil
}

// Generate sends one chat completion request and parses the structured
// result from the completion text.
func (c *Client) Generate(ctx context.Context, req *generation.Request) (*generation.Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/chat/completions", c.Config().BaseURL)
	headers := map[string]string{
		"Authorization": "Bearer " + c.Config().APIKey,
		"Content-Type":  "application/json",
	}

	var resp chatResponse
	if err := c.DoJSON(ctx, "POST", url, transformRequest(req, c.model), &resp, headers); err != nil {
		return nil, err
	}

	content, err := completionText(&resp)
	if err != nil {
		return nil, &generation.GenerationError{
			Kind:    generation.KindParse,
			Backend: c.Name(),
			Message: "malformed completion response",
			Cause:   err,
		}
	}

	result, err := generation.ParseResult(c.Name(), content)
	if err != nil {
		return nil, err
	}

	slog.Debug("generation request succeeded",
		"backend", c.Name(),
		"model", c.model,
		"alternates", len(result.AlternateTexts),
	)

	return result, nil
}

// HealthCheck verifies the API is reachable with the configured key.
func (c *Client) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/models", c.Config().BaseURL)
	return c.Ping(ctx, url, map[string]string{
		"Authorization": "Bearer " + c.Config().APIKey,
	})
}

// validateRequest rejects requests that cannot be sent.
func validateRequest(req *generation.Request) error {
	if req == nil {
		return fmt.Errorf("request cannot be nil")
	}
	if req.UserPayload == "" {
		return fmt.Errorf("request user payload cannot be empty")
	}
	return nil
}

// applyTransportDefaults fills in pool and retry defaults the way the
// adapter expects them.
func applyTransportDefaults(config *generation.Config) {
	if config.MaxRetries == 0 {
		config.MaxRetries = 2
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 100
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 10
	}
}
