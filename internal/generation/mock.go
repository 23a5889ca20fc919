// Package generation provides mock backends and test helpers shared by
// the package-level tests.
package generation

import (
	"context"
	"sync"

	"veritas-hq/coach/pkg/generation"
)

// MockClient is a scriptable generation.Client for tests.
type MockClient struct {
	// BackendName is returned by Name().
	BackendName string

	// Result and Err script the Generate outcome. Err wins when both
	// are set.
	Result *generation.Result
	Err    error

	// HealthErr scripts the HealthCheck outcome.
	HealthErr error

	mu       sync.Mutex
	calls    int
	requests []*generation.Request
}

// Name returns the scripted backend name.
func (m *MockClient) Name() string { return m.BackendName }

// Generate returns the scripted result or error and records the call.
func (m *MockClient) Generate(ctx context.Context, req *generation.Request) (*generation.Result, error) {
	m.mu.Lock()
	m.calls++
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// HealthCheck returns the scripted health error.
func (m *MockClient) HealthCheck(ctx context.Context) error { return m.HealthErr }

// Close is a no-op.
func (m *MockClient) Close() error { return nil }

// Calls returns how many times Generate was invoked.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastRequest returns the most recent Generate request, or nil.
func (m *MockClient) LastRequest() *generation.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}
