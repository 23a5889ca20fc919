package fallback

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"veritas-hq/coach/pkg/generation"
)

// Recorder receives failover telemetry. The metrics package implements
// it; a nil Recorder disables recording.
type Recorder interface {
	RecordBackendCall(backend, status string, duration time.Duration)
	RecordFailover(backend string)
}

// Manager tries backends in a fixed order and returns the first
// success. Safe for concurrent use.
type Manager struct {
	clients  []generation.Client
	recorder Recorder
	logger   *slog.Logger

	lastUsed atomic.Value // string
}

// Option configures a Manager.
type Option func(*Manager)

// WithRecorder attaches failover telemetry.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a fallback manager over an ordered, non-empty
// backend chain.
func NewManager(clients []generation.Client, opts ...Option) (*Manager, error) {
	if len(clients) == 0 {
		return nil, fmt.Errorf("fallback chain cannot be empty")
	}

	m := &Manager{
		clients: clients,
		logger:  slog.Default().With("component", "fallback"),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.lastUsed.Store("")

	names := make([]string, len(clients))
	for i, c := range clients {
		names[i] = c.Name()
	}
	m.logger.Info("fallback manager initialized", "chain", names)

	return m, nil
}

// Invoke tries each backend once in chain order and returns the first
// successful result together with the name of the backend that served
// it. Each failure is logged and recorded before moving on; when the
// whole chain fails the returned error is an *AllBackendsFailedError.
func (m *Manager) Invoke(ctx context.Context, req *generation.Request) (*generation.Result, string, error) {
	attempts := make([]Attempt, 0, len(m.clients))

	for i, client := range m.clients {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, Attempt{Backend: client.Name(), Err: err})
			break
		}

		start := time.Now()
		result, err := client.Generate(ctx, req)
		elapsed := time.Since(start)

		if err != nil {
			m.logger.Warn("backend failed, trying next",
				"backend", client.Name(),
				"position", i,
				"remaining", len(m.clients)-i-1,
				"duration_ms", elapsed.Milliseconds(),
				"error", err,
			)
			if m.recorder != nil {
				m.recorder.RecordBackendCall(client.Name(), "error", elapsed)
				if i < len(m.clients)-1 {
					m.recorder.RecordFailover(client.Name())
				}
			}
			attempts = append(attempts, Attempt{Backend: client.Name(), Err: err})
			continue
		}

		m.lastUsed.Store(client.Name())
		if m.recorder != nil {
			m.recorder.RecordBackendCall(client.Name(), "success", elapsed)
		}
		m.logger.Debug("backend succeeded",
			"backend", client.Name(),
			"position", i,
			"duration_ms", elapsed.Milliseconds(),
		)

		return result, client.Name(), nil
	}

	return nil, "", &AllBackendsFailedError{Attempts: attempts}
}

// LastUsed returns the backend that served the most recent successful
// invocation, or "" if none has succeeded yet.
func (m *Manager) LastUsed() string {
	return m.lastUsed.Load().(string)
}

// Primary returns the name of the first backend in the chain.
func (m *Manager) Primary() string {
	return m.clients[0].Name()
}

// Backends returns the chain order.
func (m *Manager) Backends() []string {
	names := make([]string, len(m.clients))
	for i, c := range m.clients {
		names[i] = c.Name()
	}
	return names
}

// Close closes every backend in the chain, returning the first error.
func (m *Manager) Close() error {
	var first error
	for _, c := range m.clients {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
