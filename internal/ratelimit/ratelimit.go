// Package ratelimit throttles repeated attempts per key, such as trip join
// attempts per user. Local keeps token buckets in memory; Redis shares a
// fixed window counter across server instances.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"
)

// Limiter decides whether another attempt for key is allowed now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Ensure Local implements Limiter
var _ Limiter = (*Local)(nil)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Local is an in-process token bucket limiter with one bucket per key.
type Local struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

// NewLocal allows perMinute attempts per key on average, with bursts up to burst.
func NewLocal(perMinute, burst int) *Local {
	if burst < 1 {
		burst = 1
	}
	return &Local{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow consumes a token from key's bucket if one is available.
func (l *Local) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1), nil
}

// Sweep drops buckets not used within idle and returns how many were removed.
func (l *Local) Sweep(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	removed := 0
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (l *Local) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// StartJanitor sweeps idle buckets from l on the given cron schedule
// (e.g. "@every 10m"). Stop the returned cron to end it.
func StartJanitor(l *Local, schedule string, idle time.Duration) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if n := l.Sweep(idle); n > 0 {
			slog.Debug("Rate limiter swept idle keys", "removed", n)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	slog.Info("Rate limiter janitor started", "schedule", schedule)
	return c, nil
}
