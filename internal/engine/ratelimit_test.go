package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter() (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewRateLimiter()
	l.now = clock.Now
	return l, clock
}

func TestRateLimiterFixedWindow(t *testing.T) {
	l, clock := newTestLimiter()
	const window = 60 * time.Second

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow("op", 3, window), "call %d", i+1)
	}
	err := l.Allow("op", 3, window)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimitExceeded)
	assert.Equal(t, KindRateLimitExceeded, KindOf(err))

	clock.Advance(window + time.Millisecond)
	require.NoError(t, l.Allow("op", 3, window))
	assert.Equal(t, 1, l.Count("op"))
}

func TestRateLimiterWindowBoundary(t *testing.T) {
	l, clock := newTestLimiter()
	const window = time.Second

	require.NoError(t, l.Allow("op", 1, window))
	clock.Advance(window)
	// Exactly at the reset time the old window still applies.
	assert.Error(t, l.Allow("op", 1, window))
	clock.Advance(time.Nanosecond)
	assert.NoError(t, l.Allow("op", 1, window))
}

func TestRateLimiterKeysIndependent(t *testing.T) {
	l, _ := newTestLimiter()
	require.NoError(t, l.Allow("a", 1, time.Minute))
	require.NoError(t, l.Allow("b", 1, time.Minute))
	assert.Error(t, l.Allow("a", 1, time.Minute))
	assert.Equal(t, 0, l.Count("missing"))
}

func TestRateLimiterConcurrent(t *testing.T) {
	l, _ := newTestLimiter()
	const limit = 10

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("generation", limit, time.Minute) == nil {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, limit, allowed)
	assert.Equal(t, limit, l.Count("generation"))
}
