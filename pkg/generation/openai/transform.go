package openai

import (
	"fmt"

	"veritas-hq/coach/pkg/generation"
)

// OpenAI chat completions wire types.

type chatRequest struct {
	Model          string                 `json:"model"`
	Messages       []chatMessage          `json:"messages"`
	Temperature    float64                `json:"temperature"`
	MaxTokens      int                    `json:"max_tokens,omitempty"`
	N              int                    `json:"n,omitempty"`
	ResponseFormat map[string]interface{} `json:"response_format,omitempty"`
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
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// transformRequest maps a backend-agnostic request to the OpenAI wire
// format. JSON mode keeps the model on the structured-output contract.
func transformRequest(req *generation.Request, model string) *chatRequest {
	return &chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemInstructions},
			{Role: "user", Content: req.UserPayload},
		},
		Temperature:    req.Temperature,
		MaxTokens:      req.MaxOutputTokens,
		N:              1,
		ResponseFormat: map[string]interface{}{"type": "json_object"},
	}
}

// completionText extracts the completion content from a response.
func completionText(resp *chatResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}
