package anthropic

import (
	"fmt"
	"strings"

	"veritas-hq/coach/pkg/generation"
)

// Anthropic Messages API wire types.

type messagesRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	System      string        `json:"system,omitempty"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// transformRequest maps a backend-agnostic request to the Messages API
// format. The system instructions travel in the dedicated system field.
func transformRequest(req *generation.Request, model string, maxTokens int) *messagesRequest {
	tokens := req.MaxOutputTokens
	if tokens <= 0 {
		tokens = maxTokens
	}
	return &messagesRequest{
		Model:       model,
		MaxTokens:   tokens,
		System:      req.SystemInstructions,
		Messages:    []wireMessage{{Role: "user", Content: req.UserPayload}},
		Temperature: req.Temperature,
	}
}

// completionText concatenates the text blocks of a response.
func completionText(resp *messagesResponse) (string, error) {
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no content blocks in response")
	}
	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no text blocks in response")
	}
	return b.String(), nil
}
