package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRateLimiter_RemoveStale(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Second), 1, time.Minute)
	defer rl.Stop()

	rl.GetLimiter("10.0.0.1")
	rl.GetLimiter("10.0.0.2")
	assert.Len(t, rl.ips, 2)

	// Neither entry is older than the ttl yet.
	rl.removeStale(time.Now())
	assert.Len(t, rl.ips, 2)

	rl.removeStale(time.Now().Add(2 * time.Minute))
	assert.Empty(t, rl.ips)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Second), 1, time.Minute)

	rl.Stop()
	rl.Stop()

	// The limiter still serves lookups after Stop; only cleanup halts.
	assert.True(t, rl.GetLimiter("10.0.0.1").Allow())
}

func TestRateLimiter_SameIPSharesLimiter(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Minute), 1, time.Minute)
	defer rl.Stop()

	first := rl.GetLimiter("10.0.0.1")
	assert.Same(t, first, rl.GetLimiter("10.0.0.1"))

	assert.True(t, first.Allow())
	assert.False(t, rl.GetLimiter("10.0.0.1").Allow())
	assert.True(t, rl.GetLimiter("10.0.0.2").Allow())
}
