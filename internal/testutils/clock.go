package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
)

// NewMockClock creates a mock clock for testing
func NewMockClock(t testing.TB) *quartz.Mock {
	return quartz.NewMock(t)
}

// RunTimers advances mock to each pending timer in turn, waiting for its
// AfterFunc callbacks to return, until no timers remain. It returns the
// total mock time elapsed. maxSteps guards against workers that keep
// scheduling timers forever.
func RunTimers(ctx context.Context, t testing.TB, mock *quartz.Mock, maxSteps int) time.Duration {
	t.Helper()

	var elapsed time.Duration
	for i := 0; i < maxSteps; i++ {
		if _, ok := mock.Peek(); !ok {
			return elapsed
		}
		d, w := mock.AdvanceNext()
		w.MustWait(ctx)
		elapsed += d
	}

	t.Fatalf("timers still pending after %d steps", maxSteps)
	return elapsed
}
