package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyedRateLimiter keeps one token bucket per key. Buckets idle for longer
// than idleTTL are dropped on a later call.
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*keyedLimiter
	limit    rate.Limit
	burst    int

	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewKeyedRateLimiter allows perMinute events per key with the given burst.
func NewKeyedRateLimiter(perMinute float64, burst int) *KeyedRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &KeyedRateLimiter{
		limiters: make(map[string]*keyedLimiter),
		limit:    rate.Limit(perMinute / 60),
		burst:    burst,
		idleTTL:  30 * time.Minute,
		now:      time.Now,
	}
}

func (k *KeyedRateLimiter) Allow(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	k.sweep(now)

	l, ok := k.limiters[key]
	if !ok {
		l = &keyedLimiter{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.limiters[key] = l
	}
	l.lastSeen = now
	return l.limiter.AllowN(now, 1)
}

// RetryAfter is the wait for one fresh token, in whole seconds.
func (k *KeyedRateLimiter) RetryAfter() int {
	if k.limit <= 0 {
		return 60
	}
	secs := int(1/float64(k.limit) + 0.999)
	return max(secs, 1)
}

func (k *KeyedRateLimiter) sweep(now time.Time) {
	if now.Sub(k.lastSweep) < k.idleTTL {
		return
	}
	k.lastSweep = now
	for key, l := range k.limiters {
		if now.Sub(l.lastSeen) > k.idleTTL {
			delete(k.limiters, key)
		}
	}
}

func (k *KeyedRateLimiter) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.limiters)
}
