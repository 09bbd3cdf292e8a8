// Package ratelimit implements per-client token buckets that throttle tag checks.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultMaxClients = 10000
	idleAfter         = 10 * time.Minute
)

// Config holds rate limiter configuration.
type Config struct {
	// RequestsPerMinute is the sustained rate per client. Zero or less disables limiting.
	RequestsPerMinute float64
	Burst             int
	// MaxClients bounds how many client buckets are tracked at once.
	MaxClients int
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter manages per-client rate limits.
type Limiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	limit      rate.Limit
	burst      int
	maxClients int
	now        func() time.Time
}

// New creates a new Limiter.
func New(cfg Config) *Limiter {
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(cfg.RequestsPerMinute / 60)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	maxClients := cfg.MaxClients
	if maxClients <= 0 {
		maxClients = defaultMaxClients
	}
	return &Limiter{
		buckets:    make(map[string]*bucket),
		limit:      limit,
		burst:      burst,
		maxClients: maxClients,
		now:        time.Now,
	}
}

// Enabled reports whether the limiter throttles anything.
func (l *Limiter) Enabled() bool {
	return l != nil && l.limit != rate.Inf
}

// Allow consumes a token for key, reporting false when the client is over its budget.
func (l *Limiter) Allow(key string) bool {
	if !l.Enabled() {
		return true
	}
	now := l.now()
	return l.bucketFor(key, now).AllowN(now, 1)
}

// Len reports the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *Limiter) bucketFor(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= l.maxClients {
			l.evictIdle(now)
		}
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter
}

// evictIdle drops idle buckets, or every bucket if none are idle. Caller holds mu.
func (l *Limiter) evictIdle(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > idleAfter {
			delete(l.buckets, key)
		}
	}
	if len(l.buckets) >= l.maxClients {
		clear(l.buckets)
	}
}
