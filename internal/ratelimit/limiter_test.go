package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func newTestLimiter(start time.Time) (*Limiter, *time.Time) {
	current := start
	l := New()
	l.now = func() time.Time { return current }
	return l, &current
}

func TestAllowDeniesOverLimit(t *testing.T) {
	l, _ := newTestLimiter(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))

	for i := 0; i < 5; i++ {
		ok, _ := l.Allow("client-a", 5, time.Minute)
		if !ok {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}

	ok, retryAfter := l.Allow("client-a", 5, time.Minute)
	if ok {
		t.Fatal("6th request allowed, want denied")
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Errorf("retryAfter = %v, want in (0, 1m]", retryAfter)
	}
}

func TestAllowResetsAfterWindow(t *testing.T) {
	l, now := newTestLimiter(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))

	for i := 0; i < 3; i++ {
		l.Allow("client-a", 3, time.Minute)
	}
	if ok, _ := l.Allow("client-a", 3, time.Minute); ok {
		t.Fatal("over-limit request allowed within window")
	}

	*now = now.Add(time.Minute + time.Second)
	if ok, _ := l.Allow("client-a", 3, time.Minute); !ok {
		t.Fatal("first request of next window denied")
	}
}

func TestAllowIsolatesIdentifiers(t *testing.T) {
	l, _ := newTestLimiter(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))

	l.Allow("client-a", 1, time.Minute)
	if ok, _ := l.Allow("client-a", 1, time.Minute); ok {
		t.Fatal("client-a allowed over limit")
	}
	if ok, _ := l.Allow("client-b", 1, time.Minute); !ok {
		t.Fatal("client-b denied by client-a's bucket")
	}
}

func TestAllowConcurrent(t *testing.T) {
	l := New()

	const attempts = 100
	const limit = 40

	var wg sync.WaitGroup
	allowed := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _ := l.Allow("shared", limit, time.Hour)
			allowed <- ok
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}
	if count != limit {
		t.Errorf("allowed %d concurrent requests, want exactly %d", count, limit)
	}
}

func TestPrune(t *testing.T) {
	l, now := newTestLimiter(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))

	l.Allow("stale", 10, time.Minute)
	*now = now.Add(30 * time.Minute)
	l.Allow("fresh", 10, time.Minute)

	if removed := l.Prune(10 * time.Minute); removed != 1 {
		t.Errorf("Prune removed %d buckets, want 1", removed)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d after prune, want 1", l.Len())
	}
}
