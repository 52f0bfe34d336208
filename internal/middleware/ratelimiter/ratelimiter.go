// Package ratelimiter implements a per-identity token bucket limiter.
package ratelimiter

import (
	"sync"
	"time"
)

// RateLimiter implements a token bucket for a single identity.
type RateLimiter struct {
	tokens     float64
	capacity   float64
	rate       float64
	lastRefill time.Time
	mu         sync.Mutex
	timer      *time.Timer
	identity   string
	parent     *IdentityRateLimiter
}

// IdentityRateLimiter manages rate limiting for multiple identities
// (typically client IPs). Idle buckets expire to bound memory.
type IdentityRateLimiter struct {
	limiters       map[string]*RateLimiter
	mu             sync.RWMutex
	rate           float64
	capacity       float64
	expirationTime time.Duration
}

// New creates a limiter refilling at rate tokens/second with the given
// burst capacity.
func New(rate float64, capacity float64, expirationTime time.Duration) *IdentityRateLimiter {
	return &IdentityRateLimiter{
		limiters:       make(map[string]*RateLimiter),
		rate:           rate,
		capacity:       capacity,
		expirationTime: expirationTime,
	}
}

// PerMinute creates a limiter allowing n requests per minute with a burst
// of the same size.
func PerMinute(n float64) *IdentityRateLimiter {
	return New(n/60.0, n, 1*time.Hour)
}

func (irl *IdentityRateLimiter) cleanup(identity string) {
	irl.mu.Lock()
	delete(irl.limiters, identity)
	irl.mu.Unlock()
}

func (rl *RateLimiter) resetTimer() {
	if rl.timer != nil {
		rl.timer.Stop()
	}
	rl.timer = time.AfterFunc(rl.parent.expirationTime, func() {
		rl.parent.cleanup(rl.identity)
	})
}

func (irl *IdentityRateLimiter) getLimiter(identity string) *RateLimiter {
	irl.mu.RLock()
	limiter, exists := irl.limiters[identity]
	irl.mu.RUnlock()

	if exists {
		limiter.resetTimer()
		return limiter
	}

	irl.mu.Lock()
	defer irl.mu.Unlock()

	// double-check after acquiring the write lock
	limiter, exists = irl.limiters[identity]
	if exists {
		limiter.resetTimer()
		return limiter
	}

	limiter = &RateLimiter{
		tokens:     irl.capacity,
		capacity:   irl.capacity,
		rate:       irl.rate,
		lastRefill: time.Now(),
		identity:   identity,
		parent:     irl,
	}
	irl.limiters[identity] = limiter
	limiter.resetTimer()

	return limiter
}

func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()

	rl.tokens += elapsed * rl.rate
	if rl.tokens > rl.capacity {
		rl.tokens = rl.capacity
	}
	rl.lastRefill = now

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// Allow checks whether a request from the given identity should pass.
func (irl *IdentityRateLimiter) Allow(identity string) bool {
	return irl.getLimiter(identity).Allow()
}

// Stop cleans up all expiration timers.
func (irl *IdentityRateLimiter) Stop() {
	irl.mu.Lock()
	defer irl.mu.Unlock()

	for _, limiter := range irl.limiters {
		if limiter.timer != nil {
			limiter.timer.Stop()
		}
	}
}
