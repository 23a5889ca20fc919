package generic

import (
	"context"
	"fmt"
	"log/slog"

	"veritas-hq/coach/pkg/generation"
)

// Client is the adapter for OpenAI-compatible backends.
type Client struct {
	*generation.HTTPClient

	model string
}

// New creates a generic OpenAI-compatible backend adapter. BaseURL is
// required because there is no canonical endpoint; APIKey is optional
// since local services (Ollama, LM Studio) usually run without one.
func New(config generation.Config) (*Client, error) {
	if config.Name == "" {
		return nil, &generation.ConfigError{
			Backend: "generic",
			Field:   "name",
			Message: "backend name is required",
		}
	}
	if config.BaseURL == "" {
		return nil, &generation.ConfigError{
			Backend: config.Name,
			Field:   "base_url",
			Message: "base URL is required for OpenAI-compatible backends",
		}
	}
	if config.Model == "" {
		return nil, &generation.ConfigError{
			Backend: config.Name,
			Field:   "model",
			Message: "model is required for OpenAI-compatible backends",
		}
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

	slog.Info("OpenAI-compatible backend initialized",
		"backend", config.Name,
		"base_url", config.BaseURL,
		"model", config.Model,
	)

	return c, nil
}

// Generate sends one chat completion request and parses the structured
// result from the completion text.
func (c *Client) Generate(ctx context.Context, req *generation.Request) (*generation.Result, error) {
	if req == nil || req.UserPayload == "" {
		return nil, fmt.Errorf("request user payload cannot be empty")
	}

	url := fmt.Sprintf("%s/chat/completions", c.Config().BaseURL)
	headers := map[string]string{"Content-Type": "application/json"}
	if key := c.Config().APIKey; key != "" {
		headers["Authorization"] = "Bearer " + key
	}

	var resp chatResponse
	if err := c.DoJSON(ctx, "POST", url, transformRequest(req, c.model), &resp, headers); err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, &generation.GenerationError{
			Kind:    generation.KindParse,
			Backend: c.Name(),
			Message: "no choices in completion response",
		}
	}

	return generation.ParseResult(c.Name(), resp.Choices[0].Message.Content)
}

// HealthCheck verifies the service is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/models", c.Config().BaseURL)
	headers := map[string]string{}
	if key := c.Config().APIKey; key != "" {
		headers["Authorization"] = "Bearer " + key
	}
	return c.Ping(ctx, url, headers)
}

// Chat completions wire types shared with any OpenAI-compatible
// service.

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// transformRequest maps a backend-agnostic request to the chat
// completions format.
func transformRequest(req *generation.Request, model string) *chatRequest {
	return &chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemInstructions},
			{Role: "user", Content: req.UserPayload},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxOutputTokens,
	}
}
