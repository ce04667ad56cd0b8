package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterRefillsPerWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }
	t.Cleanup(rl.Stop)

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "clients have separate buckets")

	now = now.Add(30 * time.Second)
	assert.True(t, rl.Allow("a"), "one token back after half the window")
	assert.False(t, rl.Allow("a"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"), "bucket never holds more than capacity")
}

func TestRateLimiterZeroCapacityDeniesEverything(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	t.Cleanup(rl.Stop)

	assert.False(t, rl.Allow("a"))
}

func TestRateLimiterCleanupDropsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }
	t.Cleanup(rl.Stop)

	rl.Allow("a")
	now = now.Add(2 * time.Hour)
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.clients)
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Stop()
	rl.Stop()
}
