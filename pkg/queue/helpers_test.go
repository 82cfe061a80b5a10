package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jzx17/taskqueue/pkg/types"
)

// pendingTask is a dispatched task awaiting completion
type pendingTask[T, R any] struct {
	task T
	done types.Done[R]
}

// manualWorker holds every dispatched task until the test completes it,
// giving tests full control over completion order.
type manualWorker[T, R any] struct {
	mu      sync.Mutex
	pending []pendingTask[T, R]
	onStart func(task T)
}

func (m *manualWorker[T, R]) work(task T, done types.Done[R]) {
	if m.onStart != nil {
		m.onStart(task)
	}
	m.mu.Lock()
	m.pending = append(m.pending, pendingTask[T, R]{task: task, done: done})
	m.mu.Unlock()
}

// completeNext completes the oldest pending task
func (m *manualWorker[T, R]) completeNext(t *testing.T, result R, err error) T {
	t.Helper()
	return m.completeAt(t, 0, result, err)
}

// completeAt completes the i-th oldest pending task
func (m *manualWorker[T, R]) completeAt(t *testing.T, i int, result R, err error) T {
	t.Helper()

	m.mu.Lock()
	if i >= len(m.pending) {
		m.mu.Unlock()
		t.Fatalf("no pending task at index %d", i)
	}
	p := m.pending[i]
	m.pending = append(m.pending[:i], m.pending[i+1:]...)
	m.mu.Unlock()

	// done may dispatch more tasks into work, so it runs without the lock
	require.NoError(t, p.done(result, err))
	return p.task
}

func (m *manualWorker[T, R]) pendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// completeAll completes pending tasks oldest first until none remain
func (m *manualWorker[T, R]) completeAll(t *testing.T, result R) {
	t.Helper()
	for m.pendingCount() > 0 {
		m.completeNext(t, result, nil)
	}
}
