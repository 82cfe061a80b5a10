package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/jzx17/taskqueue/pkg/types"
)

// Func is a blocking task function
type Func[T, R any] func(ctx context.Context, task T) (R, error)

// options holds adapter settings
type options struct {
	timeout time.Duration
}

// Option configures an adapter
type Option func(*options)

// WithTimeout bounds each task with a deadline. A task that exceeds it
// completes with an error matching types.ErrTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Go adapts fn into a queue worker that runs every task on its own goroutine.
//
// If ctx is already done when a task starts, the task completes with
// ctx.Err() and fn is not called. A panic in fn completes the task with a
// *types.PanicError.
func Go[T, R any](ctx context.Context, fn Func[T, R], opts ...Option) types.Worker[T, R] {
	o := buildOptions(opts)

	return func(task T, done types.Done[R]) {
		go func() {
			result, err := execute(ctx, task, fn, o)
			_ = done(result, err)
		}()
	}
}

// Sync adapts fn into a queue worker that runs inline on the dispatching
// goroutine. Use it only for functions that return quickly.
func Sync[T, R any](fn func(task T) (R, error)) types.Worker[T, R] {
	call := func(_ context.Context, task T) (R, error) {
		return fn(task)
	}

	return func(task T, done types.Done[R]) {
		result, err := execute(context.Background(), task, call, options{})
		_ = done(result, err)
	}
}

// execute runs fn with optional timeout and panic recovery
func execute[T, R any](ctx context.Context, task T, fn Func[T, R], o options) (R, error) {
	if err := ctx.Err(); err != nil {
		var zero R
		return zero, err
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	result, err := recoverCall(ctx, task, fn)
	if err != nil && o.timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return result, fmt.Errorf("%w after %v: %w", types.ErrTimeout, o.timeout, err)
	}
	return result, err
}

// recoverCall executes fn with panic recovery support
func recoverCall[T, R any](ctx context.Context, task T, fn Func[T, R]) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			// record panic information
			var buf [4096]byte
			n := runtime.Stack(buf[:], false)

			var zero R
			result = zero
			err = &types.PanicError{Value: r, Stack: string(buf[:n])}
		}
	}()

	return fn(ctx, task)
}
