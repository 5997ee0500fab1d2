package safety

import (
	"sync"
	"time"
)

// CircuitBreaker trips after a run of consecutive failures so a dead
// feed is backed off instead of hammered. While open, Ready reports
// false until the cooldown elapses; the first success after that
// closes the breaker again.
type CircuitBreaker struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration

	failures int
	open     bool
	openedAt time.Time
}

// NewCircuitBreaker creates a breaker tripping after threshold
// consecutive failures, holding off for cooldown.
func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		threshold: threshold,
		cooldown:  cooldown,
	}
}

// Ready reports whether calls may proceed. An open breaker lets one
// probe through once the cooldown has elapsed.
func (cb *CircuitBreaker) Ready() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !cb.open {
		return true
	}
	return time.Since(cb.openedAt) >= cb.cooldown
}

// Record feeds the outcome of one call into the breaker. A nil error
// closes it; a non-nil error counts toward the trip threshold.
func (cb *CircuitBreaker) Record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		cb.failures = 0
		cb.open = false
		return
	}

	cb.failures++
	if cb.failures >= cb.threshold && !cb.open {
		cb.open = true
		cb.openedAt = time.Now()
	} else if cb.open {
		// A failed probe restarts the cooldown.
		cb.openedAt = time.Now()
	}
}

// Open reports whether the breaker is currently tripped.
func (cb *CircuitBreaker) Open() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.open
}
