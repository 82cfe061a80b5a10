package queue

import (
	"sync/atomic"
	"time"

	"github.com/jzx17/taskqueue/pkg/types"
)

// task is a single admitted unit of work
type task[T, R any] struct {
	seq       uint64
	payload   T
	callback  types.Callback[R]
	startedAt time.Time // set under the queue mutex at dispatch
	completed atomic.Bool
}

// newTask creates a task record; seq is assigned by the queue at admission
func newTask[T, R any](seq uint64, payload T, callback types.Callback[R]) *task[T, R] {
	return &task[T, R]{
		seq:      seq,
		payload:  payload,
		callback: callback,
	}
}

// markCompleted reports whether this call is the first completion of t
func (t *task[T, R]) markCompleted() bool {
	return t.completed.CompareAndSwap(false, true)
}
