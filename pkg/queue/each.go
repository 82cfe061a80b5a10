package queue

import (
	"github.com/jzx17/taskqueue/pkg/types"
)

// Iterator processes one item of EachSeries and must call next exactly once.
// next returns types.ErrCallbackAlreadyCalled on a second call.
type Iterator[T any] func(item T, next func(err error) error)

// EachSeries runs iter over items one at a time, in order.
//
// The first non-nil error passed to next stops the iteration and is handed
// to final. Otherwise final receives nil after the last item. Empty input
// calls final(nil) immediately. final may be nil. Items are captured when
// EachSeries is called, so later changes to the slice have no effect.
func EachSeries[T any](items []T, iter Iterator[T], final func(err error)) {
	finish := func(err error) {
		if final != nil {
			final(err)
		}
	}

	if len(items) == 0 {
		finish(nil)
		return
	}

	worker := func(item T, done types.Done[struct{}]) {
		iter(item, func(err error) error {
			return done(struct{}{}, err)
		})
	}

	// Concurrency 1 and a non-nil worker cannot fail validation.
	q, _ := New[T, struct{}](worker, &Config[T]{
		Concurrency: 1,
		Hooks: Hooks[T]{
			Drain: func() { finish(nil) },
		},
	})

	stopOnError := func(_ struct{}, err error) {
		if err != nil {
			// Kill suppresses Drain, so final sees only this error.
			q.Kill()
			finish(err)
		}
	}

	enqueueSeries(q, items, stopOnError, finish)
}

// enqueueSeries admits items to q, reporting an admission failure to finish
// since no task will ever complete to do so.
func enqueueSeries[T any](q *Queue[T, struct{}], items []T, cb types.Callback[struct{}], finish func(err error)) {
	if err := q.PushAll(items, cb); err != nil {
		finish(err)
	}
}
