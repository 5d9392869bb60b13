package gemini

import (
	"context"
	"sync"
	"time"
)

// IntervalLimiter enforces a minimum gap between calls. It is the only
// shared mutable state in the client: one instance is owned by each
// Client, so independent pipelines (per tenant, per test) get isolated
// limiters instead of a package-level timestamp.
type IntervalLimiter struct {
	mu    sync.Mutex
	min   time.Duration
	last  time.Time
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewIntervalLimiter returns a limiter with the given minimum interval.
func NewIntervalLimiter(min time.Duration) *IntervalLimiter {
	return &IntervalLimiter{min: min, now: time.Now, sleep: sleepCtx}
}

// NewIntervalLimiterWithClock is NewIntervalLimiter with an injected
// clock and sleeper, for tests.
func NewIntervalLimiterWithClock(min time.Duration, now func() time.Time, sleep func(context.Context, time.Duration) error) *IntervalLimiter {
	return &IntervalLimiter{min: min, now: now, sleep: sleep}
}

// Wait blocks until at least the minimum interval has elapsed since the
// previous reservation. The slot is reserved before sleeping so that
// concurrent callers queue up behind each other rather than racing for
// the same window.
func (l *IntervalLimiter) Wait(ctx context.Context) error {
	if l == nil || l.min <= 0 {
		return nil
	}
	l.mu.Lock()
	now := l.now()
	target := l.last.Add(l.min)
	if target.Before(now) {
		target = now
	}
	l.last = target
	l.mu.Unlock()
	if d := target.Sub(now); d > 0 {
		return l.sleep(ctx, d)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
