package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// Limiter is a per-key token bucket. Buckets are created on first use
// and swept once they have been idle long enough to be full again.
type Limiter struct {
	mu        sync.Mutex
	m         map[string]*bucket
	idleAfter time.Duration
	lastSweep time.Time
}

func New() *Limiter {
	return &Limiter{
		m:         make(map[string]*bucket),
		idleAfter: 10 * time.Minute,
		lastSweep: time.Now(),
	}
}

// Allow consumes one token for key if available.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.idleAfter {
		l.sweepLocked(now)
	}

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

func (l *Limiter) sweepLocked(now time.Time) {
	for k, b := range l.m {
		if now.Sub(b.last) > l.idleAfter {
			delete(l.m, k)
		}
	}
	l.lastSweep = now
}
