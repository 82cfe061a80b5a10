/*
Package worker adapts ordinary Go functions into queue workers.

# Overview

A queue worker receives a task and a done function and must call done exactly
once. Most code is easier to write as a plain blocking function:

	func load(ctx context.Context, url string) ([]byte, error)

The adapters in this package bridge the two styles.

## Go

Go runs each task on its own goroutine, so the queue's dispatching goroutine
is never blocked:

	q, err := queue.New(worker.Go(ctx, load, worker.WithTimeout(10*time.Second)),
		&queue.Config[string]{Concurrency: 8})

- Panics are recovered and reported as *types.PanicError with a stack trace
- A cancelled context completes new tasks with ctx.Err() without running them
- WithTimeout bounds each task; overruns match types.ErrTimeout

## Sync

Sync runs the function inline on the dispatching goroutine. It suits cheap
transformations where spawning a goroutine is not worth it, and it keeps
completion synchronous, which makes queue behaviour fully deterministic in
tests.

# Error Handling

Adapters never swallow errors: whatever the function returns, or the panic it
raised, is passed to done and from there to the task callback and the queue's
Error hook.
*/
package worker
