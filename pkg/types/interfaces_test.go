package types

import (
	"testing"
	"time"

	"github.com/coder/quartz"
)

func TestQueueState_String(t *testing.T) {
	tests := []struct {
		state    QueueState
		expected string
	}{
		{StateIdle, "Idle"},
		{StateRunning, "Running"},
		{StatePaused, "Paused"},
		{StateKilled, "Killed"},
		{QueueState(999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := tt.state.String()
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestQueueStats(t *testing.T) {
	t.Run("Empty Stats", func(t *testing.T) {
		var stats QueueStats
		if stats.GetSuccessRate() != 0 {
			t.Errorf("expected success rate 0, got %v", stats.GetSuccessRate())
		}
		if stats.Utilization() != 0 {
			t.Errorf("expected utilization 0, got %v", stats.Utilization())
		}
	})

	t.Run("Rates", func(t *testing.T) {
		stats := QueueStats{
			Concurrency:    4,
			Running:        3,
			TotalCompleted: 3,
			TotalFailed:    1,
		}
		if stats.GetSuccessRate() != 0.75 {
			t.Errorf("expected success rate 0.75, got %v", stats.GetSuccessRate())
		}
		if stats.Utilization() != 0.75 {
			t.Errorf("expected utilization 0.75, got %v", stats.Utilization())
		}
	})
}

func TestWorkerContract(t *testing.T) {
	// A worker that completes inline; the done func records what it was given.
	var gotResult string
	var gotErr error
	w := Worker[string, string](func(task string, done Done[string]) {
		_ = done(task+"-processed", nil)
	})

	w("input", func(result string, err error) error {
		gotResult = result
		gotErr = err
		return nil
	})

	if gotResult != "input-processed" {
		t.Errorf("expected 'input-processed', got %q", gotResult)
	}
	if gotErr != nil {
		t.Errorf("expected nil error, got %v", gotErr)
	}
}

func TestClock(t *testing.T) {
	t.Run("Real Clock", func(t *testing.T) {
		clock := NewRealClock()
		if clock == nil {
			t.Fatal("expected a clock, got nil")
		}
		if clock.Now().IsZero() {
			t.Errorf("expected real clock to report the current time")
		}
	})

	t.Run("Elapsed On Mock Clock", func(t *testing.T) {
		mock := quartz.NewMock(t)
		start := mock.Now()

		if Elapsed(mock, start) != 0 {
			t.Errorf("expected no elapsed time on mock clock, got %v", Elapsed(mock, start))
		}
	})

	t.Run("Elapsed With Nil Clock", func(t *testing.T) {
		start := time.Now().Add(-time.Second)
		if Elapsed(nil, start) < time.Second {
			t.Errorf("expected at least one second elapsed")
		}
	})
}
