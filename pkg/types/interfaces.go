// Package types defines core interfaces and types for the task queue library
package types

// Done signals completion of a single task.
//
// It must be called exactly once per task, with the task's result and a
// non-nil error on failure. A second call returns ErrCallbackAlreadyCalled
// and has no other effect. Done is safe to call from any goroutine.
type Done[R any] func(result R, err error) error

// Worker processes one task and reports completion through done.
//
// The queue invokes a Worker on its dispatching goroutine, so a Worker must
// start its work and return promptly; blocking work belongs on another
// goroutine (see worker.Go).
type Worker[T, R any] func(task T, done Done[R])

// Callback receives the outcome of a single task
type Callback[R any] func(result R, err error)

// QueueState defines the coarse state of a queue
type QueueState int

const (
	// StateIdle queue has no backlog and nothing running
	StateIdle QueueState = iota
	// StateRunning queue has work queued or in flight
	StateRunning
	// StatePaused queue is withholding dispatch
	StatePaused
	// StateKilled queue was killed and accepts no more work
	StateKilled
)

// String returns the string representation of QueueState
func (s QueueState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	case StateKilled:
		return "Killed"
	default:
		return "Unknown"
	}
}

// QueueStats defines a point-in-time snapshot of a queue
type QueueStats struct {
	// Concurrency is the current concurrency limit
	Concurrency int

	// Running is the number of tasks in flight
	Running int

	// Backlog is the number of tasks waiting to start
	Backlog int

	// TotalPushed is the number of tasks admitted since construction
	TotalPushed int64

	// TotalCompleted is the number of tasks that completed without error
	TotalCompleted int64

	// TotalFailed is the number of tasks that completed with an error
	TotalFailed int64

	// State is the coarse queue state
	State QueueState
}

// GetSuccessRate gets the success rate
func (s QueueStats) GetSuccessRate() float64 {
	total := s.TotalCompleted + s.TotalFailed
	if total == 0 {
		return 0
	}
	return float64(s.TotalCompleted) / float64(total)
}

// Utilization returns the fraction of worker slots currently in use
func (s QueueStats) Utilization() float64 {
	if s.Concurrency <= 0 {
		return 0
	}
	return float64(s.Running) / float64(s.Concurrency)
}
