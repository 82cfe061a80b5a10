/*
Package queue provides a concurrency-bounded task queue with deterministic start ordering and lifecycle events.

# Overview

A Queue owns an ordered backlog of tasks and a limit on how many of them may be
in flight at once. A caller-supplied worker function is handed one task at a
time per free slot and reports completion through a done function:

	q, err := queue.New(func(url string, done types.Done[[]byte]) {
		go func() {
			body, err := fetch(url)
			done(body, err)
		}()
	}, &queue.Config[string]{Concurrency: 4})
	if err != nil {
		log.Fatal(err)
	}

	q.Push("https://example.com/atlas.json", func(body []byte, err error) {
		// called once, after the worker calls done
	})

Blocking functions can be adapted with worker.Go, which runs each task on its
own goroutine and recovers panics.

# Ordering

Push appends to the backlog; Unshift inserts at the head, so the most recent
Unshift starts first. Tasks start in backlog order. Completion order is not
constrained: a slow task may finish after tasks that started later.

# Concurrency

The concurrency limit can be changed at any time with SetConcurrency. Raising
it starts waiting tasks immediately. Lowering it only throttles future
dispatch; running tasks are never interrupted.

Queue state is guarded by a mutex that is never held while user code runs,
so workers, callbacks and hooks may call any Queue method. Only one goroutine
runs the dispatch loop at a time. The worker is invoked on that goroutine
and must not block.

# Completion Contract

The done function passed to the worker must be called exactly once. A second
call returns types.ErrCallbackAlreadyCalled and changes nothing. Errors passed
to done are delivered to the task's callback and to Hooks.Error; they never
stop the queue or other tasks.

# Events

Hooks are registered once through Config:
- Saturated: running reached the concurrency limit
- Unsaturated: running dropped to concurrency-buffer or below from above
- Empty: the last backlogged task was handed to the worker
- Drain: the backlog is empty and the last running task completed
- Error: a task completed with an error

When one completion triggers several events they fire in the order: task
callback, Error, Unsaturated, Drain.

# Control

Pause withholds dispatch without touching running tasks; Resume restarts it.
Kill discards the backlog, rejects further admission with
types.ErrQueueKilled and silences every hook. WaitIdle blocks until the queue
has nothing queued or running.

# Observability

Config.Logger receives structured slog records tagged with the queue ID.
Config.Metrics exports Prometheus counters, gauges and a latency histogram.
Stats returns a point-in-time snapshot.
*/
package queue
