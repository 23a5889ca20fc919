package anthropic

import (
	"context"
	"errors"
	"testing"
	"time"

	"veritas-hq/coach/internal/generation"
	gen "veritas-hq/coach/pkg/generation"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(gen.Config{Name: "anthropic"}); err == nil {
		t.Error("New() without API key should fail")
	}

	c, err := New(gen.Config{Name: "anthropic", APIKey: "k"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Config().BaseURL != defaultBaseURL {
		t.Errorf("BaseURL = %q, want default", c.Config().BaseURL)
	}
	if c.Config().Model != defaultModel {
		t.Errorf("Model = %q, want default", c.Config().Model)
	}
}

func TestGenerate(t *testing.T) {
	server := generation.NewMockServer()
	defer server.Close()
	server.SetResponse("/v1/messages", generation.MockResponse{
		Body: generation.AnthropicMessage(`{"suggestion": "Happy to help, though investments carry risk.", "confidence": 0.8}`),
	})

	client, err := New(gen.Config{
		Name:    "anthropic",
		BaseURL: server.URL(),
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	result, err := client.Generate(context.Background(), &gen.Request{
		SystemInstructions: "rewrite compliantly",
		UserPayload:        "draft",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.PrimaryText == "" {
		t.Fatal("empty primary text")
	}
	if result.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", result.Confidence)
	}
}

func TestGenerateFencedResponse(t *testing.T) {
	server := generation.NewMockServer()
	defer server.Close()
	// Anthropic has no JSON mode; fences are common and must be
	// tolerated.
	server.SetResponse("/v1/messages", generation.MockResponse{
		Body: generation.AnthropicMessage("```json\n{\"suggestion\": \"Fenced but fine.\"}\n```"),
	})

	client, err := New(gen.Config{Name: "anthropic", BaseURL: server.URL(), APIKey: "k", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	result, err := client.Generate(context.Background(), &gen.Request{UserPayload: "draft"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.PrimaryText != "Fenced but fine." {
		t.Errorf("primary = %q", result.PrimaryText)
	}
}

func TestGenerateAuthFailure(t *testing.T) {
	server := generation.NewMockServer()
	defer server.Close()
	server.SetResponse("/v1/messages", generation.MockResponse{
		StatusCode: 401,
		RawBody:    `{"type": "error", "error": {"type": "authentication_error"}}`,
	})

	client, err := New(gen.Config{Name: "anthropic", BaseURL: server.URL(), APIKey: "bad", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	_, err = client.Generate(context.Background(), &gen.Request{UserPayload: "draft"})
	if !errors.Is(err, gen.ErrAuth) {
		t.Errorf("error = %v, want auth kind", err)
	}
}
