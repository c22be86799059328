package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const idleLimiterTTL = 10 * time.Minute

// LocalRateLimiter keeps a token bucket per key in memory. It is used when
// Redis is not configured and only limits the current process.
type LocalRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*localEntry
	limit    rate.Limit
	burst    int
	now      func() time.Time
	lastGC   time.Time
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLocalRateLimiter(requestsPerMinute int) *LocalRateLimiter {
	l := &LocalRateLimiter{
		limiters: make(map[string]*localEntry),
		limit:    rate.Inf,
		burst:    requestsPerMinute,
		now:      time.Now,
	}
	if requestsPerMinute > 0 {
		l.limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	l.lastGC = l.now()
	return l
}

func (l *LocalRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.collect(now)

	entry, ok := l.limiters[key]
	if !ok {
		entry = &localEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1), nil
}

// collect drops buckets that have been idle long enough to be full again.
func (l *LocalRateLimiter) collect(now time.Time) {
	if now.Sub(l.lastGC) < idleLimiterTTL {
		return
	}
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= idleLimiterTTL {
			delete(l.limiters, key)
		}
	}
	l.lastGC = now
}
