package auth

import (
	"context"
	"sync"
	"time"
)

// RateLimiter limits how often a key may perform an action. The error
// return leaves room for backends that need I/O to answer.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// slidingWindow counts events per key inside a rolling window. Stale
// keys are pruned lazily whenever the pruning interval has elapsed,
// which keeps the map bounded without a background goroutine.
type slidingWindow struct {
	limit     int
	window    time.Duration
	mu        sync.Mutex
	events    map[string][]time.Time
	lastPrune time.Time
}

func newSlidingWindow(limit int, window time.Duration) *slidingWindow {
	return &slidingWindow{
		limit:     limit,
		window:    window,
		events:    make(map[string][]time.Time),
		lastPrune: time.Now(),
	}
}

func (l *slidingWindow) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPrune) > l.window {
		l.prune(cutoff)
		l.lastPrune = now
	}

	recent := trimBefore(l.events[key], cutoff)
	if len(recent) >= l.limit {
		l.events[key] = recent
		return false, nil
	}

	l.events[key] = append(recent, now)
	return true, nil
}

func (l *slidingWindow) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.events, key)
	return nil
}

func (l *slidingWindow) prune(cutoff time.Time) {
	for key, stamps := range l.events {
		recent := trimBefore(stamps, cutoff)
		if len(recent) == 0 {
			delete(l.events, key)
			continue
		}
		l.events[key] = recent
	}
}

// trimBefore drops timestamps older than cutoff. Stamps are appended
// in order, so the first recent index splits the slice.
func trimBefore(stamps []time.Time, cutoff time.Time) []time.Time {
	for i, ts := range stamps {
		if ts.After(cutoff) {
			return stamps[i:]
		}
	}
	return nil
}

// IPRateLimiter throttles unauthenticated traffic per client address
// before any token validation work happens.
type IPRateLimiter struct {
	limiter RateLimiter
}

// NewIPRateLimiter creates an IP rate limiter with a per-minute budget
func NewIPRateLimiter(requestsPerMinute int) *IPRateLimiter {
	return &IPRateLimiter{
		limiter: newSlidingWindow(requestsPerMinute, time.Minute),
	}
}

// Allow reports whether the address may make another request
func (l *IPRateLimiter) Allow(ctx context.Context, ip string) (bool, error) {
	return l.limiter.Allow(ctx, ip)
}

// UserRateLimiter throttles authenticated users. Session users share
// the same budget keyed by their synthetic user ID.
type UserRateLimiter struct {
	limiter RateLimiter
}

// NewUserRateLimiter creates a user rate limiter with a per-minute budget
func NewUserRateLimiter(requestsPerMinute int) *UserRateLimiter {
	return &UserRateLimiter{
		limiter: newSlidingWindow(requestsPerMinute, time.Minute),
	}
}

// Allow reports whether the user may make another request
func (l *UserRateLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	return l.limiter.Allow(ctx, userID)
}
