// Package ratelimit provides a per-provider sliding-window rate limiter.
//
// Unlike a token bucket, the sliding window strictly bounds calls per rolling
// minute, which is what third-party quotas are written against. Bursts at
// window boundaries are possible; smooth pacing is not guaranteed.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Window is the quota interval every provider quota is expressed against.
const Window = time.Minute

// Limiter bounds calls to at most limit per rolling window. One Limiter is
// shared by every sport routed to the same provider, so the timestamp list
// is guarded by a mutex.
type Limiter struct {
	mu    sync.Mutex
	limit int
	clock clockwork.Clock
	calls []time.Time
}

// New creates a limiter allowing callsPerMinute calls per rolling minute.
func New(callsPerMinute int) *Limiter {
	return NewWithClock(callsPerMinute, clockwork.NewRealClock())
}

// NewWithClock creates a limiter with an injected clock for tests.
func NewWithClock(callsPerMinute int, clock clockwork.Clock) *Limiter {
	if callsPerMinute < 1 {
		callsPerMinute = 1
	}
	return &Limiter{
		limit: callsPerMinute,
		clock: clock,
	}
}

// Acquire blocks until a call slot is free or ctx is cancelled. An
// over-limit call is delayed until the oldest tracked call ages out of the
// window, never rejected.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.clock.Now()
		l.prune(now)

		if len(l.calls) < l.limit {
			l.calls = append(l.calls, now)
			l.mu.Unlock()
			return nil
		}

		// Wait until the oldest call leaves the window, then re-check.
		// Re-checking matters: another goroutine may take the freed slot
		// first (classic check-then-act race otherwise).
		wait := Window - now.Sub(l.calls[0])
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.clock.After(wait):
		}
	}
}

// InFlight returns the number of calls tracked inside the current window.
func (l *Limiter) InFlight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.clock.Now())
	return len(l.calls)
}

// prune drops timestamps older than the window. Caller holds l.mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-Window)
	i := 0
	for i < len(l.calls) && !l.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.calls = append(l.calls[:0], l.calls[i:]...)
	}
}
