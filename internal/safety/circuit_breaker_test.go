package safety

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFeed = errors.New("feed down")

func TestCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)
	require.True(t, cb.Ready())

	cb.Record(errFeed)
	cb.Record(errFeed)
	assert.True(t, cb.Ready(), "below threshold the breaker stays closed")

	cb.Record(errFeed)
	assert.True(t, cb.Open())
	assert.False(t, cb.Ready())
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	cb := NewCircuitBreaker(3, time.Minute)

	cb.Record(errFeed)
	cb.Record(errFeed)
	cb.Record(nil)
	cb.Record(errFeed)
	cb.Record(errFeed)
	assert.True(t, cb.Ready(), "a success must reset the consecutive-failure count")
}

func TestCircuitBreaker_ProbesAfterCooldown(t *testing.T) {
	cb := NewCircuitBreaker(1, 30*time.Millisecond)
	cb.Record(errFeed)
	require.False(t, cb.Ready())

	time.Sleep(40 * time.Millisecond)
	assert.True(t, cb.Ready(), "cooldown elapsed: one probe may pass")

	// The probe succeeds: breaker closes fully.
	cb.Record(nil)
	assert.False(t, cb.Open())
	assert.True(t, cb.Ready())
}

func TestCircuitBreaker_FailedProbeRestartsCooldown(t *testing.T) {
	cb := NewCircuitBreaker(1, 30*time.Millisecond)
	cb.Record(errFeed)

	time.Sleep(40 * time.Millisecond)
	require.True(t, cb.Ready())

	cb.Record(errFeed)
	assert.False(t, cb.Ready(), "failed probe re-arms the cooldown")
}
