// Package ratelimit provides per-user rate limiting for the message
// ingress. Each UserID gets its own token bucket, so one chatty user never
// throttles another.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config defines the rate limiting parameters.
type Config struct {
	PerMinute       int           // messages per minute per user
	Burst           int           // burst size per user
	CleanupInterval time.Duration // how often idle limiters are dropped
	IdleTimeout     time.Duration // limiter age after which it is dropped
}

// DefaultConfig matches the intended single-operator deployment.
var DefaultConfig = Config{
	PerMinute:       10,
	Burst:           10,
	CleanupInterval: time.Hour,
	IdleTimeout:     time.Hour,
}

type entry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// Limiter manages per-user token buckets with background cleanup of idle
// entries.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	config   Config

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a limiter and starts its cleanup goroutine. Call Stop when
// done.
func New(config Config) *Limiter {
	if config.PerMinute <= 0 {
		config.PerMinute = DefaultConfig.PerMinute
	}
	if config.Burst <= 0 {
		config.Burst = config.PerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultConfig.CleanupInterval
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultConfig.IdleTimeout
	}
	l := &Limiter{
		limiters: make(map[string]*entry),
		config:   config,
		stopCh:   make(chan struct{}),
	}
	l.wg.Add(1)
	go l.cleanupLoop()
	return l
}

// Allow reports whether a message from userID is within its rate limit.
func (l *Limiter) Allow(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.limiters[userID]
	if !ok {
		e = &entry{
			limiter: rate.NewLimiter(rate.Limit(float64(l.config.PerMinute)/60.0), l.config.Burst),
		}
		l.limiters[userID] = e
	}
	e.lastUsed = time.Now()
	return e.limiter.Allow()
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	close(l.stopCh)
	l.wg.Wait()
}

func (l *Limiter) cleanupLoop() {
	defer l.wg.Done()
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-l.config.IdleTimeout)
			l.mu.Lock()
			for id, e := range l.limiters {
				if e.lastUsed.Before(cutoff) {
					delete(l.limiters, id)
				}
			}
			l.mu.Unlock()
		}
	}
}
