package generation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockResponse defines one scripted HTTP response.
type MockResponse struct {
	StatusCode int
	Body       any
	RawBody    string
	Headers    map[string]string
}

// MockServer is an httptest-backed stand-in for a generation backend
// API. Responses are scripted per path; unknown paths return 404.
type MockServer struct {
	server    *httptest.Server
	mu        sync.Mutex
	responses map[string][]MockResponse
	requests  int
}

// NewMockServer creates a started mock backend server.
func NewMockServer() *MockServer {
	ms := &MockServer{responses: make(map[string][]MockResponse)}
	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))
	return ms
}

// URL returns the server's base URL.
func (ms *MockServer) URL() string { return ms.server.URL }

// Close shuts the server down.
func (ms *MockServer) Close() { ms.server.Close() }

// SetResponse scripts a fixed response for a path.
func (ms *MockServer) SetResponse(path string, resp MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.responses[path] = []MockResponse{resp}
}

// QueueResponses scripts a sequence of responses for a path; the last
// one repeats once the queue drains.
func (ms *MockServer) QueueResponses(path string, resps ...MockResponse) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.responses[path] = resps
}

// Requests returns how many requests the server has handled.
func (ms *MockServer) Requests() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.requests
}

func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	ms.mu.Lock()
	ms.requests++
	queue, ok := ms.responses[r.URL.Path]
	var resp MockResponse
	if ok && len(queue) > 0 {
		resp = queue[0]
		if len(queue) > 1 {
			ms.responses[r.URL.Path] = queue[1:]
		}
	}
	ms.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)

	switch {
	case resp.RawBody != "":
		_, _ = w.Write([]byte(resp.RawBody))
	case resp.Body != nil:
		_ = json.NewEncoder(w).Encode(resp.Body)
	}
}

// ChatCompletion builds an OpenAI-style chat completion body whose
// single choice carries content.
func ChatCompletion(content string) map[string]any {
	return map[string]any{
		"id":    "chatcmpl-test",
		"model": "test-model",
		"choices": []map[string]any{
			{
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
}

// AnthropicMessage builds an Anthropic messages body whose content is a
// single text block.
func AnthropicMessage(content string) map[string]any {
	return map[string]any{
		"id":   "msg-test",
		"type": "message",
		"role": "assistant",
		"content": []map[string]any{
			{"type": "text", "text": content},
		},
		"stop_reason": "end_turn",
	}
}
