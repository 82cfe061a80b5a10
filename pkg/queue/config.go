package queue

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jzx17/taskqueue/pkg/types"
)

// Hooks holds the optional lifecycle event handlers of a queue.
// Each event has at most one handler; a nil handler means the event is not observed.
type Hooks[T any] struct {
	// Saturated fires when the number of running tasks reaches the concurrency limit
	Saturated func()

	// Unsaturated fires when the number of running tasks drops to
	// concurrency-buffer or below from above it
	Unsaturated func()

	// Empty fires when the last backlogged task is handed to a worker
	Empty func()

	// Drain fires when the backlog is empty and the last running task completed
	Drain func()

	// Error fires for every task that completed with a non-nil error
	Error func(err error, task T)
}

// Config contains configuration for a task queue
type Config[T any] struct {
	// Concurrency is the maximum number of tasks running at once
	Concurrency int

	// Buffer is the threshold below Concurrency that triggers Unsaturated.
	// Zero selects the default of Concurrency/4.
	Buffer float64

	// Hooks are the lifecycle event handlers
	Hooks Hooks[T]

	// Logger receives structured queue logs (optional, defaults to discarding)
	Logger *slog.Logger

	// Clock for time operations (optional, defaults to real clock)
	Clock types.Clock

	// Metrics collects Prometheus metrics (optional)
	Metrics *Metrics
}

// DefaultConfig returns default configuration
func DefaultConfig[T any]() *Config[T] {
	return &Config[T]{
		Concurrency: 1,
		Clock:       types.NewRealClock(),
	}
}

// validate checks the configuration
func (c *Config[T]) validate() error {
	if c.Concurrency <= 0 {
		return fmt.Errorf("%w, got %d", types.ErrInvalidConcurrency, c.Concurrency)
	}
	if c.Buffer < 0 {
		return fmt.Errorf("%w, got %v", types.ErrInvalidBuffer, c.Buffer)
	}
	return nil
}

// defaultBuffer returns the unsaturated buffer for a concurrency limit
func defaultBuffer(concurrency int) float64 {
	return float64(concurrency) / 4
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
