package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jzx17/taskqueue/pkg/types"
)

func TestFixedDelay(t *testing.T) {
	policy := NewFixedDelay(3, 100*time.Millisecond)

	if policy.MaxAttempts() != 3 {
		t.Errorf("Expected max attempts 3, got %d", policy.MaxAttempts())
	}

	for attempt := 1; attempt <= 3; attempt++ {
		if delay := policy.NextDelay(attempt); delay != 100*time.Millisecond {
			t.Errorf("Attempt %d: expected delay 100ms, got %v", attempt, delay)
		}
	}
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		expected []time.Duration
	}{
		{
			name:     "default multiplier",
			expected: []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond, 800 * time.Millisecond},
		},
		{
			name:     "custom multiplier",
			opts:     []Option{WithMultiplier(3)},
			expected: []time.Duration{100 * time.Millisecond, 300 * time.Millisecond, 900 * time.Millisecond, 2700 * time.Millisecond},
		},
		{
			name:     "capped by max delay",
			opts:     []Option{WithMaxDelay(250 * time.Millisecond)},
			expected: []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := NewExponentialBackoff(5, 100*time.Millisecond, tt.opts...)
			for i, expected := range tt.expected {
				if delay := policy.NextDelay(i + 1); delay != expected {
					t.Errorf("Attempt %d: expected %v, got %v", i+1, expected, delay)
				}
			}
		})
	}
}

func TestExponentialBackoff_Overflow(t *testing.T) {
	policy := NewExponentialBackoff(10000, time.Second, WithMaxDelay(time.Minute))

	if delay := policy.NextDelay(5000); delay != time.Minute {
		t.Errorf("Expected delay capped at 1m, got %v", delay)
	}
}

func TestLinearBackoff(t *testing.T) {
	policy := NewLinearBackoff(5, 100*time.Millisecond, 50*time.Millisecond, WithMaxDelay(220*time.Millisecond))

	expected := []time.Duration{100 * time.Millisecond, 150 * time.Millisecond, 200 * time.Millisecond, 220 * time.Millisecond}
	for i, want := range expected {
		if delay := policy.NextDelay(i + 1); delay != want {
			t.Errorf("Attempt %d: expected %v, got %v", i+1, want, delay)
		}
	}

	if delay := policy.NextDelay(1 << 30); delay != 220*time.Millisecond {
		t.Errorf("Expected huge attempt capped at 220ms, got %v", delay)
	}
}

func TestShouldRetry(t *testing.T) {
	policy := NewFixedDelay(3, time.Millisecond)
	retryable := &types.RetryableError{Err: errors.New("busy"), Retryable: true}

	tests := []struct {
		name     string
		err      error
		attempt  int
		expected bool
	}{
		{"nil error", nil, 1, false},
		{"retryable first attempt", retryable, 1, true},
		{"retryable second attempt", retryable, 2, true},
		{"retryable last attempt", retryable, 3, false},
		{"plain error", errors.New("plain"), 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.ShouldRetry(tt.err, tt.attempt); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDefaultRetryCondition(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"timeout", types.ErrTimeout, true},
		{"wrapped timeout", fmt.Errorf("%w after 1s: %w", types.ErrTimeout, context.DeadlineExceeded), true},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"retryable", &types.RetryableError{Err: errors.New("x"), Retryable: true}, true},
		{"marked not retryable", &types.RetryableError{Err: errors.New("x"), Retryable: false}, false},
		{"wrapped retryable", fmt.Errorf("load: %w", &types.RetryableError{Err: errors.New("x"), Retryable: true}), true},
		{"plain", errors.New("plain"), false},
		{"killed queue", types.ErrQueueKilled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultRetryCondition(tt.err); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestWithRetryCondition(t *testing.T) {
	always := NewFixedDelay(3, 0, WithRetryCondition(Always))
	if !always.ShouldRetry(errors.New("plain"), 1) {
		t.Error("Expected Always condition to retry a plain error")
	}

	never := NewFixedDelay(3, 0, WithRetryCondition(Never))
	if never.ShouldRetry(types.ErrTimeout, 1) {
		t.Error("Expected Never condition to refuse retries")
	}

	// nil keeps the default
	fallback := NewFixedDelay(3, 0, WithRetryCondition(nil))
	if !fallback.ShouldRetry(types.ErrTimeout, 1) {
		t.Error("Expected default condition to retry timeout")
	}
}

func TestPolicyWithJitter(t *testing.T) {
	policy := NewFixedDelay(3, 100*time.Millisecond, WithJitter(FullJitter))

	for i := 0; i < 20; i++ {
		delay := policy.NextDelay(1)
		if delay < 0 || delay >= 100*time.Millisecond {
			t.Errorf("Jittered delay %v out of range [0, 100ms)", delay)
		}
	}
}

func TestMinimumAttempts(t *testing.T) {
	policy := NewFixedDelay(0, time.Millisecond)
	if policy.MaxAttempts() != 1 {
		t.Errorf("Expected max attempts clamped to 1, got %d", policy.MaxAttempts())
	}
}
