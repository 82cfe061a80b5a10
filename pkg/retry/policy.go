package retry

import (
	"context"
	"errors"
	"time"

	"github.com/jzx17/taskqueue/pkg/types"
)

// Policy decides whether and when a failed attempt is retried
type Policy interface {
	// ShouldRetry reports whether another attempt may follow the given
	// failed attempt. attempt counts from 1.
	ShouldRetry(err error, attempt int) bool

	// NextDelay returns the wait before the attempt after attempt
	NextDelay(attempt int) time.Duration

	// MaxAttempts returns the total number of attempts allowed
	MaxAttempts() int
}

// Condition reports whether an error is worth retrying
type Condition func(error) bool

// settings holds the options shared by all policies
type settings struct {
	maxAttempts int
	condition   Condition
	jitter      JitterFunc
	multiplier  float64
	maxDelay    time.Duration
}

// Option configures a policy
type Option func(*settings)

// WithRetryCondition replaces DefaultRetryCondition
func WithRetryCondition(condition Condition) Option {
	return func(s *settings) {
		if condition != nil {
			s.condition = condition
		}
	}
}

// WithJitter randomizes every computed delay with jitter
func WithJitter(jitter JitterFunc) Option {
	return func(s *settings) {
		s.jitter = jitter
	}
}

// WithMultiplier sets the growth factor of ExponentialBackoff
func WithMultiplier(multiplier float64) Option {
	return func(s *settings) {
		if multiplier >= 1 {
			s.multiplier = multiplier
		}
	}
}

// WithMaxDelay caps the delay of ExponentialBackoff and LinearBackoff
func WithMaxDelay(maxDelay time.Duration) Option {
	return func(s *settings) {
		if maxDelay > 0 {
			s.maxDelay = maxDelay
		}
	}
}

func newSettings(maxAttempts int, opts []Option) settings {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	s := settings{
		maxAttempts: maxAttempts,
		condition:   DefaultRetryCondition,
		multiplier:  2.0,
		maxDelay:    30 * time.Second,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// ShouldRetry determines whether to retry
func (s *settings) ShouldRetry(err error, attempt int) bool {
	if err == nil || attempt >= s.maxAttempts {
		return false
	}
	return s.condition(err)
}

// MaxAttempts returns the maximum attempts
func (s *settings) MaxAttempts() int {
	return s.maxAttempts
}

func (s *settings) finish(delay time.Duration) time.Duration {
	if s.jitter != nil {
		delay = s.jitter(delay)
	}
	if delay < 0 {
		return 0
	}
	return delay
}

// FixedDelay waits the same amount of time before every retry
type FixedDelay struct {
	settings
	delay time.Duration
}

// NewFixedDelay creates a fixed delay policy allowing maxAttempts attempts
func NewFixedDelay(maxAttempts int, delay time.Duration, opts ...Option) *FixedDelay {
	return &FixedDelay{
		settings: newSettings(maxAttempts, opts),
		delay:    delay,
	}
}

// NextDelay returns the delay for the next retry
func (p *FixedDelay) NextDelay(attempt int) time.Duration {
	return p.finish(p.delay)
}

// ExponentialBackoff multiplies the delay after every attempt
type ExponentialBackoff struct {
	settings
	initialDelay time.Duration
}

// NewExponentialBackoff creates an exponential backoff policy.
// The multiplier defaults to 2 and the delay is capped at 30s.
func NewExponentialBackoff(maxAttempts int, initialDelay time.Duration, opts ...Option) *ExponentialBackoff {
	return &ExponentialBackoff{
		settings:     newSettings(maxAttempts, opts),
		initialDelay: initialDelay,
	}
}

// NextDelay returns the delay for the next retry
func (p *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	return p.finish(exponentialDelay(p.initialDelay, p.multiplier, attempt, p.maxDelay))
}

// LinearBackoff adds a fixed increment to the delay after every attempt
type LinearBackoff struct {
	settings
	initialDelay time.Duration
	increment    time.Duration
}

// NewLinearBackoff creates a linear backoff policy capped at 30s by default
func NewLinearBackoff(maxAttempts int, initialDelay, increment time.Duration, opts ...Option) *LinearBackoff {
	return &LinearBackoff{
		settings:     newSettings(maxAttempts, opts),
		initialDelay: initialDelay,
		increment:    increment,
	}
}

// NextDelay returns the delay for the next retry
func (p *LinearBackoff) NextDelay(attempt int) time.Duration {
	return p.finish(linearDelay(p.initialDelay, p.increment, attempt, p.maxDelay))
}

// DefaultRetryCondition retries timeouts and errors marked retryable with
// types.RetryableError. Cancellation and deadline errors of the caller's
// context are never retried.
func DefaultRetryCondition(err error) bool {
	if err == nil {
		return false
	}

	// a worker timeout also matches context.DeadlineExceeded
	if errors.Is(err, types.ErrTimeout) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return types.IsRetryable(err)
}

// Never is a Condition that retries nothing
func Never(error) bool {
	return false
}

// Always is a Condition that retries every error
func Always(err error) bool {
	return err != nil
}
