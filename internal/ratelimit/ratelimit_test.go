package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func frozen(rl *RateLimiter, start time.Time) *time.Time {
	now := start
	rl.now = func() time.Time { return now }
	return &now
}

func TestAllowPerMinute(t *testing.T) {
	rl := NewRateLimiter(2, 0, true)
	now := frozen(rl, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	// other clients have their own window
	assert.True(t, rl.Allow("b"))

	*now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("a"))
}

func TestAllowPerHour(t *testing.T) {
	rl := NewRateLimiter(100, 3, true)
	now := frozen(rl, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("a"))
		*now = now.Add(2 * time.Minute)
	}
	assert.False(t, rl.Allow("a"))

	*now = now.Add(time.Hour)
	assert.True(t, rl.Allow("a"))
}

func TestDisabledAlwaysAllows(t *testing.T) {
	rl := NewRateLimiter(1, 1, false)
	for i := 0; i < 10; i++ {
		assert.True(t, rl.Allow("a"))
	}
	assert.False(t, rl.GetStats().Enabled)
}

func TestPruneAndReset(t *testing.T) {
	rl := NewRateLimiter(10, 10, true)
	now := frozen(rl, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	rl.Allow("a")
	rl.Allow("b")
	assert.Equal(t, 2, rl.GetStats().TrackedClients)

	*now = now.Add(2 * time.Hour)
	rl.Allow("b")
	assert.Equal(t, 1, rl.Prune())
	assert.Equal(t, 1, rl.GetStats().TrackedClients)

	rl.Reset()
	assert.Equal(t, 0, rl.GetStats().TrackedClients)
}
