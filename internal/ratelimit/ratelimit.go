// Package ratelimit provides a keyed rate limiter using token bucket algorithm.
// It supports both non-blocking (Allow) and blocking (Wait) operations.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"
)

// DefaultIdle is how long an unused key keeps its bucket.
const DefaultIdle = 10 * time.Minute

// KeyedRateLimiter manages per-key rate limiting.
// Each unique key gets its own independent rate limiter; keys that stay
// unused for the idle period are forgotten.
type KeyedRateLimiter struct {
	limiters *ttlcache.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int

	stopOnce sync.Once
}

// New creates a new keyed rate limiter.
// rps: requests per second allowed.
// burst: maximum burst size (tokens available immediately).
// idle: eviction period for unused keys; zero means DefaultIdle.
func New(rps float64, burst int, idle time.Duration) *KeyedRateLimiter {
	if idle <= 0 {
		idle = DefaultIdle
	}
	cache := ttlcache.New(ttlcache.WithTTL[string, *rate.Limiter](idle))
	go cache.Start()

	return &KeyedRateLimiter{
		limiters: cache,
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// PerInterval creates a limiter allowing n requests per interval.
// For example 120 per minute is 2 rps.
func PerInterval(n int, interval time.Duration, burst int) *KeyedRateLimiter {
	return New(float64(n)/interval.Seconds(), burst, 0)
}

// Allow checks if a request for the given key should be allowed.
// Returns immediately without blocking. Use for inbound request protection.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Wait blocks until a request for the given key is allowed or context is canceled.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.getLimiter(key).Wait(ctx)
}

// Len returns the number of keys currently tracked.
func (krl *KeyedRateLimiter) Len() int {
	return krl.limiters.Len()
}

// getLimiter returns the limiter for a key, creating one if needed.
// Each lookup extends the key's idle deadline.
func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	if item := krl.limiters.Get(key); item != nil {
		return item.Value()
	}
	item, _ := krl.limiters.GetOrSet(key, rate.NewLimiter(krl.limit, krl.burst))
	return item.Value()
}

// Stop shuts down the eviction goroutine.
func (krl *KeyedRateLimiter) Stop() {
	krl.stopOnce.Do(krl.limiters.Stop)
}
