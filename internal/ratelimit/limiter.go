package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	count         int
	windowResetAt time.Time
}

// Limiter is a sliding-window request counter keyed by client identifier.
// All check-and-increment operations happen under a single lock so two
// concurrent requests can never both win a window reset.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func New() *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow reports whether the identifier may make another request within the
// window. When denied, retryAfter tells the caller how long until the
// window resets.
func (l *Limiter) Allow(identifier string, maxRequests int, window time.Duration) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	b, ok := l.buckets[identifier]
	if !ok || now.After(b.windowResetAt) {
		l.buckets[identifier] = &bucket{
			count:         1,
			windowResetAt: now.Add(window),
		}
		return true, 0
	}

	if b.count >= maxRequests {
		return false, b.windowResetAt.Sub(now)
	}

	b.count++
	return true, 0
}

// Prune drops buckets whose window reset is further in the past than
// olderThan, bounding memory held for clients that went away. Returns the
// number of buckets removed.
func (l *Limiter) Prune(olderThan time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for id, b := range l.buckets {
		if now.Sub(b.windowResetAt) > olderThan {
			delete(l.buckets, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
