package anthropic

import (
	"context"
	"fmt"
	"log/slog"

	"veritas-hq/coach/pkg/generation"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	defaultModel   = "claude-3-5-haiku-latest"

	// apiVersion is the Messages API version header value.
	apiVersion = "2023-06-01"

	// defaultMaxTokens caps output when the request does not.
	defaultMaxTokens = 512
)

// Client is the Anthropic backend adapter.
type Client struct {
	*generation.HTTPClient

	model string
}

// New creates an Anthropic backend adapter.
func New(config generation.Config) (*Client, error) {
	if config.Name == "" {
		return nil, &generation.ConfigError{
			Backend: "anthropic",
			Field:   "name",
			Message: "backend name is required",
		}
	}
	if config.APIKey == "" {
		return nil, &generation.ConfigError{
			Backend: config.Name,
			Field:   "api_key",
			Message: "API key is required for Anthropic",
		}
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 2
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 100
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 10
	}

	c := &Client{
		HTTPClient: generation.NewHTTPClient(config),
		model:      config.Model,
	}

	slog.Info("Anthropic backend initialized",
		"backend", config.Name,
		"base_url", config.BaseURL,
		"model", config.Model,
	)

	return c, nil
}

// Generate sends one Messages API request and parses the structured
// result from the concatenated text blocks. Anthropic has no JSON
// response mode, so the structured-output contract lives entirely in
// the system instructions and the fence-tolerant parser.
func (c *Client) Generate(ctx context.Context, req *generation.Request) (*generation.Result, error) {
	if req == nil || req.UserPayload == "" {
		return nil, fmt.Errorf("request user payload cannot be empty")
	}

	url := fmt.Sprintf("%s/v1/messages", c.Config().BaseURL)
	headers := map[string]string{
		"x-api-key":         c.Config().APIKey,
		"anthropic-version": apiVersion,
		"Content-Type":      "application/json",
	}

	var resp messagesResponse
	if err := c.DoJSON(ctx, "POST", url, transformRequest(req, c.model, defaultMaxTokens), &resp, headers); err != nil {
		return nil, err
	}

	content, err := completionText(&resp)
	if err != nil {
		return nil, &generation.GenerationError{
			Kind:    generation.KindParse,
			Backend: c.Name(),
			Message: "malformed messages response",
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
	url := fmt.Sprintf("%s/v1/models", c.Config().BaseURL)
	return c.Ping(ctx, url, map[string]string{
		"x-api-key":         c.Config().APIKey,
		"anthropic-version": apiVersion,
	})
}
