package auth

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a keyed token-bucket limiter. Buckets refill continuously
// at the per-minute rate and are created on first use.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64 // tokens per second
	burst   float64

	lastSweep time.Time
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

const sweepInterval = 10 * time.Minute

// NewRateLimiter creates a limiter allowing perMinute requests per key
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		buckets:   make(map[string]*bucket),
		rate:      float64(perMinute) / 60.0,
		burst:     float64(perMinute),
		lastSweep: time.Now(),
	}
}

// NewIPRateLimiter creates a limiter keyed by client IP
func NewIPRateLimiter(perMinute int) *RateLimiter {
	return NewRateLimiter(perMinute)
}

// NewUserRateLimiter creates a limiter keyed by user id
func NewUserRateLimiter(perMinute int) *RateLimiter {
	return NewRateLimiter(perMinute)
}

// Allow reports whether one more request is admitted for the key
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > sweepInterval {
		l.sweep(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst, lastSeen: now}
		l.buckets[key] = b
	}

	elapsed := now.Sub(b.lastSeen).Seconds()
	b.tokens += elapsed * l.rate
	if b.tokens > l.burst {
		b.tokens = l.burst
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false, nil
	}
	b.tokens--
	return true, nil
}

// sweep drops buckets idle long enough to have refilled completely.
// Caller holds the lock.
func (l *RateLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > sweepInterval {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}
