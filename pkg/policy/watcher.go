package policy

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the policy store when the definition file changes.
// Reloads are debounced to avoid rebuild storms from editors that write
// in multiple steps, and a failed reload keeps the previous store.
type Watcher struct {
	engine   *Engine
	source   *FileSource
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// WatcherConfig configures a policy file watcher.
type WatcherConfig struct {
	// DebounceInterval is how long to wait after the last change event
	// before reloading. Defaults to 200ms.
	DebounceInterval time.Duration

	// Logger receives watcher lifecycle and reload events.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// NewWatcher creates a watcher that keeps engine's store in sync with
// the definition file behind source.
func NewWatcher(engine *Engine, source *FileSource, cfg WatcherConfig) (*Watcher, error) {
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = 200 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		engine:   engine,
		source:   source,
		watcher:  fw,
		debounce: cfg.DebounceInterval,
		logger:   cfg.Logger,
	}, nil
}

// Run watches for changes until the context is cancelled. It watches
// the file's directory rather than the file itself so that atomic
// replace-by-rename (the common editor save strategy) is observed.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	dir := filepath.Dir(w.source.Path())
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.logger.Info("policy watcher started",
		"path", w.source.Path(),
		"debounce_ms", w.debounce.Milliseconds(),
	)

	var timer *time.Timer
	var timerCh <-chan time.Time

	target := filepath.Clean(w.source.Path())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("policy watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerCh:
			timer = nil
			timerCh = nil
			if err := w.engine.Reload(w.source); err != nil {
				// Keep serving the previous store.
				w.logger.Error("policy reload failed, keeping active store",
					"path", w.source.Path(),
					"error", err,
				)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("policy watcher error", "error", err)
		}
	}
}

// Close releases the underlying file watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
