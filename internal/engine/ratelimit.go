package engine

import (
	"fmt"
	"sync"
	"time"
)

// RateLimiter enforces fixed-window quotas per operation key.
// It is process-local; create one and pass it to the clients that need it.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
	now     func() time.Time
}

type rateWindow struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter returns an empty limiter using the wall clock.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*rateWindow),
		now:     time.Now,
	}
}

// Allow records one call for key. It fails with KindRateLimitExceeded once limit
// calls have been made within the current window. A call after the window has
// elapsed opens a new window with a count of 1.
func (l *RateLimiter) Allow(key string, limit int, window time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	switch {
	case !ok || now.After(w.resetAt):
		l.windows[key] = &rateWindow{count: 1, resetAt: now.Add(window)}
	case w.count >= limit:
		metrics.RateLimited.Add(1)
		return NewError(KindRateLimitExceeded, fmt.Sprintf("%s: %d calls per %s", key, limit, window), nil)
	default:
		w.count++
	}
	return nil
}

// Count reports the calls recorded in the current window for key.
func (l *RateLimiter) Count(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if w, ok := l.windows[key]; ok {
		return w.count
	}
	return 0
}
