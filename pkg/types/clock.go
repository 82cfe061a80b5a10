// Package types provides core clock abstractions for time mocking
package types

import (
	"time"

	"github.com/coder/quartz"
)

// Clock provides an abstraction over time operations for testing.
// Production code uses quartz.NewReal(); tests use quartz.NewMock(t).
type Clock = quartz.Clock

// NewRealClock creates a new real clock
func NewRealClock() Clock {
	return quartz.NewReal()
}

// Elapsed returns the time elapsed since start according to clock.
// A nil clock falls back to the real clock.
func Elapsed(clock Clock, start time.Time) time.Duration {
	if clock == nil {
		return time.Since(start)
	}
	return clock.Since(start)
}
