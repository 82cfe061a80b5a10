package retry

import (
	"math"
	"math/rand"
	"time"
)

// JitterFunc randomizes a delay
type JitterFunc func(time.Duration) time.Duration

// FullJitter picks a delay uniformly in [0, delay)
func FullJitter(delay time.Duration) time.Duration {
	if delay <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(delay)))
}

// EqualJitter keeps half the delay and randomizes the other half
func EqualJitter(delay time.Duration) time.Duration {
	if delay <= 0 {
		return 0
	}
	half := delay / 2
	if half == 0 {
		return delay
	}
	return half + time.Duration(rand.Int63n(int64(half)))
}

// ProportionalJitter spreads the delay by up to factor in either direction.
// A factor outside (0, 1] falls back to 0.1.
func ProportionalJitter(factor float64) JitterFunc {
	if factor <= 0 || factor > 1 {
		factor = 0.1
	}
	return func(delay time.Duration) time.Duration {
		if delay <= 0 {
			return 0
		}
		spread := float64(delay) * factor
		result := delay + time.Duration((rand.Float64()*2-1)*spread)
		if result < 0 {
			return delay / 2
		}
		return result
	}
}

// exponentialDelay returns initial*multiplier^(attempt-1), capped at maxDelay
func exponentialDelay(initial time.Duration, multiplier float64, attempt int, maxDelay time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	raw := float64(initial) * math.Pow(multiplier, float64(attempt-1))
	// float overflow or beyond the cap
	if math.IsInf(raw, 0) || raw >= float64(maxDelay) {
		return maxDelay
	}
	return time.Duration(raw)
}

// linearDelay returns initial+(attempt-1)*increment, capped at maxDelay
func linearDelay(initial, increment time.Duration, attempt int, maxDelay time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	steps := time.Duration(attempt - 1)
	if increment > 0 && steps > (maxDelay-initial)/increment {
		return maxDelay
	}
	delay := initial + steps*increment
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}
