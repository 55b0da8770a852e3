package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeClock drives the limiter's view of time without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(clock *fakeClock) *FixedWindow {
	l := NewFixedWindow(15*time.Minute, 3)
	l.now = clock.Now
	return l
}

func TestFixedWindow_FourthRequestDenied(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)
	ctx := context.Background()
	windowStart := clock.Now()

	for i := 0; i < 3; i++ {
		d := l.Check(ctx, "203.0.113.7")
		if !d.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if d.Remaining != 2-i {
			t.Errorf("request %d: expected remaining %d, got %d", i+1, 2-i, d.Remaining)
		}
		clock.Advance(10 * time.Second)
	}

	d := l.Check(ctx, "203.0.113.7")
	if d.Allowed {
		t.Fatal("fourth request within the window should be denied")
	}
	if d.Remaining != 0 {
		t.Errorf("expected remaining 0, got %d", d.Remaining)
	}
	if want := windowStart.Add(15 * time.Minute); !d.ResetAt.Equal(want) {
		t.Errorf("expected resetAt %s (first request + window), got %s", want, d.ResetAt)
	}
}

func TestFixedWindow_WindowExpiryResetsCount(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		l.Check(ctx, "203.0.113.7")
	}

	clock.Advance(15*time.Minute + time.Second)

	d := l.Check(ctx, "203.0.113.7")
	if !d.Allowed {
		t.Fatal("request after window expiry should be allowed")
	}
	if d.Remaining != 2 {
		t.Errorf("expected count reset to 1 (remaining 2), got remaining %d", d.Remaining)
	}
	if want := clock.Now().Add(15 * time.Minute); !d.ResetAt.Equal(want) {
		t.Errorf("expected fresh window resetAt %s, got %s", want, d.ResetAt)
	}
}

func TestFixedWindow_EmptyIdentifierAlwaysAllowed(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)
	ctx := context.Background()

	// Unattributable traffic is never limited.
	for i := 0; i < 20; i++ {
		if d := l.Check(ctx, ""); !d.Allowed {
			t.Fatalf("request %d with empty identifier should be allowed", i+1)
		}
	}
	if l.Len() != 0 {
		t.Errorf("empty identifier should not be tracked, have %d entries", l.Len())
	}
}

func TestFixedWindow_IdentifiersAreIndependent(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		l.Check(ctx, "203.0.113.7")
	}
	if d := l.Check(ctx, "203.0.113.7"); d.Allowed {
		t.Fatal("expected first identifier exhausted")
	}
	if d := l.Check(ctx, "198.51.100.9"); !d.Allowed {
		t.Fatal("second identifier should have its own window")
	}
}

func TestFixedWindow_SweepEvictsStaleEntries(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)
	ctx := context.Background()

	l.Check(ctx, "203.0.113.7")
	l.Check(ctx, "198.51.100.9")
	if l.Len() != 2 {
		t.Fatalf("expected 2 tracked identifiers, got %d", l.Len())
	}

	clock.Advance(16 * time.Minute)

	// A check from a third identifier sweeps both stale entries and must not
	// be affected by them.
	if d := l.Check(ctx, "192.0.2.1"); !d.Allowed {
		t.Fatal("fresh identifier should be allowed")
	}
	if l.Len() != 1 {
		t.Errorf("expected stale entries evicted, have %d", l.Len())
	}
}

func TestFixedWindow_ConcurrentChecksNeverExceedCapacity(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)
	ctx := context.Background()

	// The check-and-increment is done under the lock, so near-simultaneous
	// requests cannot both squeeze past the capacity check.
	const requests = 50
	var wg sync.WaitGroup
	allowed := make(chan struct{}, requests)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Check(ctx, "203.0.113.7").Allowed {
				allowed <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for range allowed {
		count++
	}
	if count != 3 {
		t.Errorf("expected exactly 3 allowed under concurrency, got %d", count)
	}
}
