package generation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// HealthSweeper runs scheduled health checks across a set of backends.
// Results feed logging and the adapters' own health bookkeeping only;
// the fallback chain does not consult them, so a slow sweep can never
// delay a generation call.
type HealthSweeper struct {
	clients []Client
	cron    *cron.Cron
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewHealthSweeper creates a sweeper over the given backends.
func NewHealthSweeper(clients []Client, timeout time.Duration) *HealthSweeper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HealthSweeper{
		clients: clients,
		cron:    cron.New(),
		timeout: timeout,
		logger:  slog.Default().With("component", "generation.health"),
	}
}

// Start schedules sweeps using a standard cron expression (e.g.
// "*/5 * * * *" for every five minutes). An empty schedule disables
// the sweeper. The sweeper stops when ctx is cancelled.
func (s *HealthSweeper) Start(ctx context.Context, schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if schedule == "" {
		s.logger.Info("health sweep schedule not configured, skipping")
		return nil
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid health sweep schedule %q: %w", schedule, err)
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.sweep(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule health sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("health sweeper started",
		"schedule", schedule,
		"backends", len(s.clients),
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// sweep checks every backend once.
func (s *HealthSweeper) sweep(ctx context.Context) {
	for _, client := range s.clients {
		checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := client.HealthCheck(checkCtx)
		cancel()

		if err != nil {
			s.logger.Warn("backend health check failed",
				"backend", client.Name(),
				"error", err,
			)
			continue
		}
		s.logger.Debug("backend health check passed", "backend", client.Name())
	}
}

// Stop halts scheduled sweeps. A sweep already in flight completes.
func (s *HealthSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
	s.logger.Info("health sweeper stopped")
}
