// Package types defines error types
package types

import (
	"errors"
	"fmt"
	"time"
)

// Predefined errors
var (
	// ErrInvalidConcurrency indicates a concurrency value that is not a positive integer
	ErrInvalidConcurrency = errors.New("concurrency must be a positive integer")

	// ErrInvalidBuffer indicates a negative unsaturated buffer
	ErrInvalidBuffer = errors.New("buffer must not be negative")

	// ErrNilWorker indicates a queue was constructed without a worker function
	ErrNilWorker = errors.New("worker function cannot be nil")

	// ErrQueueKilled indicates the queue has been killed and accepts no more work
	ErrQueueKilled = errors.New("queue is killed")

	// ErrCallbackAlreadyCalled indicates a task's completion function was called twice
	ErrCallbackAlreadyCalled = errors.New("callback was already called")

	// ErrTimeout indicates operation timeout
	ErrTimeout = errors.New("operation timeout")
)

// TaskError attaches the failed task to an error so that callbacks and the
// Error hook can tell which payload failed without closing over it.
type TaskError[T any] struct {
	// Task is the payload that failed
	Task T

	// Attempts is how many times the task function ran
	Attempts int

	// Err is the last error returned for the task
	Err error
}

// NewTaskError wraps err for task
func NewTaskError[T any](task T, attempts int, err error) *TaskError[T] {
	return &TaskError[T]{Task: task, Attempts: attempts, Err: err}
}

// Error implements the error interface
func (e *TaskError[T]) Error() string {
	return fmt.Sprintf("task %v: %v", e.Task, e.Err)
}

// Unwrap returns the underlying error
func (e *TaskError[T]) Unwrap() error {
	return e.Err
}

// PanicError is returned in place of a task result when the worker function panicked
type PanicError struct {
	// Value is the value passed to panic
	Value interface{}

	// Stack is the goroutine stack captured at recovery
	Stack string
}

// Error implements the error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// RetryableError represents a retryable error
type RetryableError struct {
	// Err is the underlying error
	Err error

	// Retryable indicates whether the error is retryable
	Retryable bool

	// RetryAfter is the suggested retry delay
	RetryAfter time.Duration
}

// Error implements the error interface
func (e *RetryableError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}
	return false
}

// GetRetryDelay returns the suggested retry delay
func GetRetryDelay(err error) time.Duration {
	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.RetryAfter
	}
	return 0
}
