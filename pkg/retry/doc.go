// Package retry retries failing task functions on the caller side.
//
// A queue never retries a task by itself: a task that fails is reported to
// its callback once. Wrapping the task function with this package retries
// it before the queue sees the outcome.
//
// Policies:
//   - FixedDelay: the same delay before every retry
//   - ExponentialBackoff: delay multiplied after every attempt
//   - LinearBackoff: delay grows by a fixed increment
//
// Jitter:
//   - FullJitter: uniform in [0, delay)
//   - EqualJitter: delay/2 plus uniform in [0, delay/2)
//   - ProportionalJitter: delay spread by a factor
//
// By default only timeouts and errors wrapped in types.RetryableError are
// retried; see DefaultRetryCondition and WithRetryCondition.
//
// Basic usage:
//
//	policy := retry.NewExponentialBackoff(3, 100*time.Millisecond,
//		retry.WithJitter(retry.EqualJitter))
//	exec := retry.NewExecutor(policy, retry.WithLogger(logger))
//
//	body, err := retry.Do(ctx, exec, func(ctx context.Context) ([]byte, error) {
//		return fetch(ctx, url)
//	})
//
// Queue integration:
//
//	q, err := queue.New(retry.Worker(ctx, exec, fetch), &queue.Config[string]{Concurrency: 4})
//
// Waiting between attempts goes through the executor clock, so tests can
// substitute a quartz mock with WithClock.
package retry
