// Package testutils provides simplified testing utilities and helper functions
package testutils

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// Recorder is a concurrency-safe ordered log of events, used to assert on
// the exact interleaving of worker, callback and hook calls.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Add records one event
func (r *Recorder) Add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Addf records one formatted event
func (r *Recorder) Addf(format string, args ...interface{}) {
	r.Add(fmt.Sprintf(format, args...))
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many times event was recorded
func (r *Recorder) Count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

// Context returns a context cancelled after timeout or at test cleanup
func Context(t testing.TB, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
