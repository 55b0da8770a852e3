package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of a limiter check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter decides whether a request from the given identifier may proceed.
// Implementations never fail: on any internal error they allow the request.
type Limiter interface {
	Check(ctx context.Context, identifier string) Decision
}

// FixedWindow is an in-memory fixed-window limiter keyed by client identifier.
// Counters are per-process and reset on restart; in a horizontally scaled
// deployment each instance counts independently, so the effective global limit
// is capacity times the instance count.
type FixedWindow struct {
	mu       sync.Mutex
	entries  map[string]*windowEntry
	window   time.Duration
	capacity int
	now      func() time.Time
}

type windowEntry struct {
	count       int
	windowStart time.Time
}

// NewFixedWindow creates a limiter allowing capacity requests per identifier
// per window.
func NewFixedWindow(window time.Duration, capacity int) *FixedWindow {
	return &FixedWindow{
		entries:  make(map[string]*windowEntry),
		window:   window,
		capacity: capacity,
		now:      time.Now,
	}
}

// Check records a request from identifier and returns the decision.
//
// An empty identifier is always allowed: traffic we cannot attribute to a
// client (local requests, stripped proxy headers) is deliberately not limited.
func (l *FixedWindow) Check(_ context.Context, identifier string) Decision {
	if identifier == "" {
		return Decision{Allowed: true, Remaining: l.capacity}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	e, ok := l.entries[identifier]
	if !ok || now.Sub(e.windowStart) > l.window {
		l.entries[identifier] = &windowEntry{count: 1, windowStart: now}
		return Decision{
			Allowed:   true,
			Remaining: l.capacity - 1,
			ResetAt:   now.Add(l.window),
		}
	}

	resetAt := e.windowStart.Add(l.window)
	if e.count >= l.capacity {
		return Decision{Allowed: false, Remaining: 0, ResetAt: resetAt}
	}

	e.count++
	return Decision{
		Allowed:   true,
		Remaining: l.capacity - e.count,
		ResetAt:   resetAt,
	}
}

// sweep evicts entries whose window has expired. Housekeeping only: evicting
// another identifier's stale entry never changes the current call's outcome.
// Caller holds the lock.
func (l *FixedWindow) sweep(now time.Time) {
	for id, e := range l.entries {
		if now.Sub(e.windowStart) > l.window {
			delete(l.entries, id)
		}
	}
}

// Len reports the number of tracked identifiers.
func (l *FixedWindow) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

var _ Limiter = (*FixedWindow)(nil)
