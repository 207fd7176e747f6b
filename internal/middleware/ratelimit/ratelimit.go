// Package ratelimit throttles mutating requests per client IP with a fixed
// one-minute window.
package ratelimit

import (
	"sync"
	"time"
)

const (
	window        = time.Minute
	staleAfter    = 10 * time.Minute
	defaultBudget = 60
	defaultSweep  = 5 * time.Minute
)

type counter struct {
	seen  int
	since time.Time
}

// Limiter counts requests per client IP. Counters reset once the client has
// been quiet for a full window; idle clients are swept in the background.
type Limiter struct {
	mu       sync.Mutex
	counters map[string]*counter
	budget   int

	quit chan struct{}
	once sync.Once
}

// Config sets the per-window request budget and sweep interval.
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

func DefaultConfig() Config {
	return Config{RequestsPerMinute: defaultBudget, CleanupInterval: defaultSweep}
}

// NewLimiter starts a limiter and its sweep goroutine. Stop it with Stop.
func NewLimiter(cfg Config) *Limiter {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = defaultBudget
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaultSweep
	}
	l := &Limiter{
		counters: make(map[string]*counter),
		budget:   cfg.RequestsPerMinute,
		quit:     make(chan struct{}),
	}
	go l.sweep(cfg.CleanupInterval)
	return l
}

// Allow reports whether clientIP still has budget in the current window.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c := l.counters[clientIP]
	if c == nil || now.Sub(c.since) > window {
		l.counters[clientIP] = &counter{seen: 1, since: now}
		return true
	}
	c.seen++
	c.since = now
	return c.seen <= l.budget
}

// ActiveClients reports how many client IPs are currently tracked.
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.counters)
}

func (l *Limiter) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-staleAfter)
			l.mu.Lock()
			for ip, c := range l.counters {
				if c.since.Before(cutoff) {
					delete(l.counters, ip)
				}
			}
			l.mu.Unlock()
		case <-l.quit:
			return
		}
	}
}

// Stop ends the sweep goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.quit) })
}
