package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jzx17/taskqueue/pkg/types"
)

// Queue is a concurrency-bounded task queue.
//
// Tasks start in backlog order: Push appends to the tail, Unshift inserts at
// the head. At most Concurrency tasks are handed to the worker at once.
// Completion order is whatever order the worker calls done in.
type Queue[T, R any] struct {
	id      string
	worker  types.Worker[T, R]
	hooks   Hooks[T]
	logger  *slog.Logger
	clock   types.Clock
	metrics *Metrics

	mu          sync.Mutex
	backlog     []*task[T, R]
	concurrency int
	buffer      float64
	running     int
	paused      bool
	started     bool
	killed      bool
	processing  bool // a dispatch loop is active
	drained     bool // Drain already fired for the current idle period
	nextSeq     uint64
	idleWaiters []chan struct{}

	// statistics, guarded by mu
	totalPushed    int64
	totalCompleted int64
	totalFailed    int64
}

// New creates a queue that runs worker on each task.
// A nil config uses DefaultConfig.
func New[T, R any](worker types.Worker[T, R], config *Config[T]) (*Queue[T, R], error) {
	if config == nil {
		config = DefaultConfig[T]()
	}

	// Validate parameters
	if worker == nil {
		return nil, types.ErrNilWorker
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	buffer := config.Buffer
	if buffer == 0 {
		buffer = defaultBuffer(config.Concurrency)
	}

	clock := config.Clock
	if clock == nil {
		clock = types.NewRealClock()
	}

	id := uuid.NewString()
	logger := config.Logger
	if logger == nil {
		logger = discardLogger()
	}

	return &Queue[T, R]{
		id:          id,
		worker:      worker,
		hooks:       config.Hooks,
		logger:      logger.With("queue_id", id),
		clock:       clock,
		metrics:     config.Metrics,
		concurrency: config.Concurrency,
		buffer:      buffer,
	}, nil
}

// ID returns the unique identifier of the queue
func (q *Queue[T, R]) ID() string {
	return q.id
}

// Push appends a task to the tail of the backlog.
// callback may be nil.
func (q *Queue[T, R]) Push(task T, callback types.Callback[R]) error {
	return q.insert([]T{task}, callback, false)
}

// PushAll appends tasks to the backlog in order, attaching callback to each.
func (q *Queue[T, R]) PushAll(tasks []T, callback types.Callback[R]) error {
	return q.insert(tasks, callback, false)
}

// Unshift inserts a task at the head of the backlog, ahead of all waiting tasks.
func (q *Queue[T, R]) Unshift(task T, callback types.Callback[R]) error {
	return q.insert([]T{task}, callback, true)
}

// UnshiftAll inserts tasks at the head of the backlog, keeping their order.
func (q *Queue[T, R]) UnshiftAll(tasks []T, callback types.Callback[R]) error {
	return q.insert(tasks, callback, true)
}

// insert admits payloads and runs a dispatch pass
func (q *Queue[T, R]) insert(payloads []T, callback types.Callback[R], front bool) error {
	q.mu.Lock()
	if q.killed {
		q.mu.Unlock()
		return types.ErrQueueKilled
	}
	q.started = true

	// An empty batch on an idle queue still reports the queue as drained.
	if len(payloads) == 0 {
		drain := q.running == 0 && len(q.backlog) == 0 && !q.drained
		if drain {
			q.drained = true
		}
		q.mu.Unlock()
		if drain {
			q.fire(q.hooks.Drain)
		}
		return nil
	}

	records := make([]*task[T, R], len(payloads))
	for i, p := range payloads {
		q.nextSeq++
		records[i] = newTask(q.nextSeq, p, callback)
	}
	if front {
		q.backlog = append(records, q.backlog...)
	} else {
		q.backlog = append(q.backlog, records...)
	}
	q.drained = false
	q.totalPushed += int64(len(records))
	backlog := len(q.backlog)
	q.mu.Unlock()

	q.metrics.observePush(len(records), backlog)
	q.logger.Debug("tasks admitted", "count", len(records), "front", front, "backlog", backlog)

	q.process()
	return nil
}

// process hands backlog tasks to the worker while slots are free.
// Only one goroutine runs the loop; concurrent calls return immediately and
// the active loop picks up their state changes on its next check.
func (q *Queue[T, R]) process() {
	q.mu.Lock()
	if q.processing {
		q.mu.Unlock()
		return
	}
	q.processing = true

	for !q.paused && !q.killed && q.running < q.concurrency && len(q.backlog) > 0 {
		t := q.backlog[0]
		q.backlog[0] = nil
		q.backlog = q.backlog[1:]
		emptied := len(q.backlog) == 0

		q.running++
		saturated := q.running == q.concurrency
		t.startedAt = q.clock.Now()
		running, backlog := q.running, len(q.backlog)
		q.mu.Unlock()

		q.metrics.observeDispatch(running, backlog)
		q.logger.Debug("task dispatched", "seq", t.seq, "running", running, "backlog", backlog)

		if emptied {
			q.fire(q.hooks.Empty)
		}
		if saturated {
			q.fire(q.hooks.Saturated)
		}
		q.worker(t.payload, q.doneFunc(t))

		q.mu.Lock()
	}

	q.processing = false
	q.mu.Unlock()
}

// doneFunc returns the completion function handed to the worker for t
func (q *Queue[T, R]) doneFunc(t *task[T, R]) types.Done[R] {
	return func(result R, err error) error {
		if !t.markCompleted() {
			q.logger.Warn("task completed more than once", "seq", t.seq)
			return fmt.Errorf("task %d: %w", t.seq, types.ErrCallbackAlreadyCalled)
		}
		q.complete(t, result, err)
		return nil
	}
}

// complete records the outcome of t and fires completion hooks in order:
// task callback, Error, Unsaturated, Drain.
func (q *Queue[T, R]) complete(t *task[T, R], result R, err error) {
	q.mu.Lock()
	latency := types.Elapsed(q.clock, t.startedAt)
	prev := q.running
	q.running--
	if err != nil {
		q.totalFailed++
	} else {
		q.totalCompleted++
	}
	threshold := float64(q.concurrency) - q.buffer
	unsaturated := float64(prev) > threshold && float64(q.running) <= threshold
	running := q.running
	q.mu.Unlock()

	q.metrics.observeCompletion(latency, err, running)
	if err != nil {
		q.logger.Debug("task failed", "seq", t.seq, "duration", latency, "error", err)
	} else {
		q.logger.Debug("task completed", "seq", t.seq, "duration", latency)
	}

	if t.callback != nil {
		t.callback(result, err)
	}
	if err != nil && q.hooks.Error != nil && !q.Killed() {
		q.hooks.Error(err, t.payload)
	}
	if unsaturated {
		q.fire(q.hooks.Unsaturated)
	}

	q.mu.Lock()
	drain := !q.killed && !q.drained && q.running == 0 && len(q.backlog) == 0
	if drain {
		q.drained = true
	}
	q.mu.Unlock()
	if drain {
		q.fire(q.hooks.Drain)
	}

	q.releaseIdleWaiters()
	q.process()
}

// fire runs hook unless it is unset or the queue has been killed
func (q *Queue[T, R]) fire(hook func()) {
	if hook == nil || q.Killed() {
		return
	}
	hook()
}

// releaseIdleWaiters wakes WaitIdle callers if the queue is idle
func (q *Queue[T, R]) releaseIdleWaiters() {
	q.mu.Lock()
	if q.running != 0 || len(q.backlog) != 0 {
		q.mu.Unlock()
		return
	}
	waiters := q.idleWaiters
	q.idleWaiters = nil
	q.mu.Unlock()

	for _, ch := range waiters {
		close(ch)
	}
}

// Pause stops dispatching new tasks. Running tasks are not affected.
func (q *Queue[T, R]) Pause() {
	q.mu.Lock()
	q.paused = true
	q.mu.Unlock()
	q.logger.Info("queue paused")
}

// Resume restarts dispatching after Pause
func (q *Queue[T, R]) Resume() {
	q.mu.Lock()
	q.paused = false
	q.mu.Unlock()
	q.logger.Info("queue resumed")
	q.process()
}

// Kill discards the backlog and permanently stops dispatch and hooks.
// Discarded tasks never see their callbacks. Tasks already handed to the
// worker are not interrupted. Kill is idempotent.
func (q *Queue[T, R]) Kill() {
	q.mu.Lock()
	if q.killed {
		q.mu.Unlock()
		return
	}
	q.killed = true
	discarded := len(q.backlog)
	q.backlog = nil
	running := q.running
	q.mu.Unlock()

	q.metrics.observeBacklog(0)
	q.logger.Warn("queue killed", "discarded", discarded, "running", running)
	q.releaseIdleWaiters()
}

// SetConcurrency changes the concurrency limit. Raising it starts backlog
// tasks immediately; lowering it never interrupts running tasks.
func (q *Queue[T, R]) SetConcurrency(concurrency int) error {
	if concurrency <= 0 {
		return fmt.Errorf("%w, got %d", types.ErrInvalidConcurrency, concurrency)
	}

	q.mu.Lock()
	old := q.concurrency
	q.concurrency = concurrency
	q.mu.Unlock()

	q.logger.Info("concurrency changed", "from", old, "to", concurrency)
	q.process()
	return nil
}

// SetBuffer changes the Unsaturated threshold
func (q *Queue[T, R]) SetBuffer(buffer float64) error {
	if buffer < 0 {
		return fmt.Errorf("%w, got %v", types.ErrInvalidBuffer, buffer)
	}

	q.mu.Lock()
	q.buffer = buffer
	q.mu.Unlock()
	return nil
}

// WaitIdle blocks until the backlog is empty and no task is running, or ctx is done.
// It does not depend on the Drain hook, so it also returns once in-flight
// tasks settle after Kill. A paused queue with backlog never becomes idle.
func (q *Queue[T, R]) WaitIdle(ctx context.Context) error {
	q.mu.Lock()
	if q.running == 0 && len(q.backlog) == 0 {
		q.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	q.idleWaiters = append(q.idleWaiters, ch)
	q.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		q.removeIdleWaiter(ch)
		return ctx.Err()
	}
}

// removeIdleWaiter drops ch from the waiters of a WaitIdle call that gave up
func (q *Queue[T, R]) removeIdleWaiter(ch chan struct{}) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, w := range q.idleWaiters {
		if w == ch {
			q.idleWaiters = append(q.idleWaiters[:i], q.idleWaiters[i+1:]...)
			return
		}
	}
}

// Idle reports whether the backlog is empty and no task is running
func (q *Queue[T, R]) Idle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog) == 0 && q.running == 0
}

// Length returns the number of tasks waiting to start
func (q *Queue[T, R]) Length() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog)
}

// Running returns the number of tasks currently in flight
func (q *Queue[T, R]) Running() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

// Concurrency returns the current concurrency limit
func (q *Queue[T, R]) Concurrency() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.concurrency
}

// Buffer returns the current Unsaturated threshold
func (q *Queue[T, R]) Buffer() float64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buffer
}

// Started reports whether any task has ever been admitted
func (q *Queue[T, R]) Started() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.started
}

// Paused reports whether dispatch is paused
func (q *Queue[T, R]) Paused() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.paused
}

// Killed reports whether Kill has been called
func (q *Queue[T, R]) Killed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.killed
}

// State returns the coarse queue state
func (q *Queue[T, R]) State() types.QueueState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stateLocked()
}

func (q *Queue[T, R]) stateLocked() types.QueueState {
	switch {
	case q.killed:
		return types.StateKilled
	case q.paused:
		return types.StatePaused
	case q.running == 0 && len(q.backlog) == 0:
		return types.StateIdle
	default:
		return types.StateRunning
	}
}

// Stats returns a snapshot of queue statistics
func (q *Queue[T, R]) Stats() types.QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()

	return types.QueueStats{
		Concurrency:    q.concurrency,
		Running:        q.running,
		Backlog:        len(q.backlog),
		TotalPushed:    q.totalPushed,
		TotalCompleted: q.totalCompleted,
		TotalFailed:    q.totalFailed,
		State:          q.stateLocked(),
	}
}
