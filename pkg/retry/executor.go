package retry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jzx17/taskqueue/pkg/types"
	"github.com/jzx17/taskqueue/pkg/worker"
)

// Stats contains retry statistics
type Stats struct {
	TotalAttempts   int64         // function invocations
	TotalRetries    int64         // invocations after the first, across all calls
	TotalSuccesses  int64         // calls that ended in success
	TotalFailures   int64         // calls that gave up
	TotalRetryDelay time.Duration // time spent waiting between attempts
	LastRetryTime   time.Time
}

// AverageAttempts returns attempts per finished call
func (s Stats) AverageAttempts() float64 {
	finished := s.TotalSuccesses + s.TotalFailures
	if finished == 0 {
		return 0
	}
	return float64(s.TotalAttempts) / float64(finished)
}

// Executor runs functions under a retry Policy.
// It is safe for concurrent use; statistics are shared by all calls.
type Executor struct {
	policy Policy
	clock  types.Clock
	logger *slog.Logger

	mu    sync.Mutex
	stats Stats
}

// ExecutorOption configures an Executor
type ExecutorOption func(*Executor)

// WithClock sets the clock used to wait between attempts
func WithClock(clock types.Clock) ExecutorOption {
	return func(e *Executor) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithLogger sets the logger for retry events
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExecutor creates an executor for policy
func NewExecutor(policy Policy, opts ...ExecutorOption) *Executor {
	e := &Executor{
		policy: policy,
		clock:  types.NewRealClock(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do calls fn until it succeeds, the policy gives up, or ctx is done.
//
// The wait before a retry is the policy delay, or the RetryAfter of a
// types.RetryableError when that is longer. When the policy gives up, the
// last error is returned wrapped with the attempt count.
func Do[R any](ctx context.Context, e *Executor, fn func(ctx context.Context) (R, error)) (R, error) {
	var zero R

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			e.record(func(s *Stats) { s.TotalFailures++ })
			return zero, err
		}

		e.record(func(s *Stats) {
			s.TotalAttempts++
			if attempt > 1 {
				s.TotalRetries++
			}
		})

		start := e.clock.Now()
		result, err := fn(ctx)
		if err == nil {
			e.record(func(s *Stats) { s.TotalSuccesses++ })
			if attempt > 1 {
				e.logger.Info("retry succeeded", "attempt", attempt, "duration", e.clock.Since(start))
			}
			return result, nil
		}

		if !e.policy.ShouldRetry(err, attempt) {
			e.record(func(s *Stats) { s.TotalFailures++ })
			if attempt >= e.policy.MaxAttempts() {
				e.logger.Warn("max retry attempts reached", "attempts", attempt, "error", err)
			} else {
				e.logger.Debug("error not retryable", "attempt", attempt, "error", err)
			}
			return zero, fmt.Errorf("after %d attempts: %w", attempt, err)
		}

		delay := e.policy.NextDelay(attempt)
		if after := types.GetRetryDelay(err); after > delay {
			delay = after
		}
		e.record(func(s *Stats) {
			s.TotalRetryDelay += delay
			s.LastRetryTime = e.clock.Now()
		})
		e.logger.Debug("retrying", "attempt", attempt, "delay", delay, "error", err)

		if err := e.wait(ctx, delay); err != nil {
			e.record(func(s *Stats) { s.TotalFailures++ })
			return zero, err
		}
	}
}

// wait blocks for delay or until ctx is done
func (e *Executor) wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := e.clock.NewTimer(delay, "retry", "wait")
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Stats returns a snapshot of the statistics
func (e *Executor) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// ResetStats clears the statistics
func (e *Executor) ResetStats() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats = Stats{}
}

func (e *Executor) record(fn func(*Stats)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.stats)
}

// Worker adapts fn into a queue worker whose tasks are retried under e
// before completing. Tasks run on their own goroutines as with worker.Go;
// a WithTimeout option bounds the whole retry sequence of a task. A task
// that finally fails completes with a *types.TaskError carrying the task.
func Worker[T, R any](ctx context.Context, e *Executor, fn worker.Func[T, R], opts ...worker.Option) types.Worker[T, R] {
	return worker.Go(ctx, func(ctx context.Context, task T) (R, error) {
		attempts := 0
		result, err := Do(ctx, e, func(ctx context.Context) (R, error) {
			attempts++
			return fn(ctx, task)
		})
		if err != nil {
			return result, types.NewTaskError(task, attempts, err)
		}
		return result, nil
	}, opts...)
}
