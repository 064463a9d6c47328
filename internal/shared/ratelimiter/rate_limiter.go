// Package ratelimiter limits how often a client may call the API.
package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether one more request for key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// window is one fixed counting window for a key.
type window struct {
	count     int
	lastReset time.Time
}

// MemoryLimiter is a per-key fixed-window limiter held in process memory.
// It is safe for concurrent use. Counts are not shared between replicas.
type MemoryLimiter struct {
	mu        sync.Mutex
	limit     int           // requests allowed per interval
	interval  time.Duration // window length
	windows   map[string]*window
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryLimiter creates a MemoryLimiter allowing limit requests per interval for each key.
func NewMemoryLimiter(limit int, interval time.Duration) *MemoryLimiter {
	if limit <= 0 {
		limit = 1
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &MemoryLimiter{
		limit:     limit,
		interval:  interval,
		windows:   make(map[string]*window),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow counts one request for key and reports whether it is within the limit.
func (rl *MemoryLimiter) Allow(_ context.Context, key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.lastReset) >= rl.interval {
		w = &window{lastReset: now}
		rl.windows[key] = w
	}
	w.count++
	return w.count <= rl.limit
}

// sweep drops expired windows at most once per interval.
func (rl *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.interval {
		return
	}
	for k, w := range rl.windows {
		if now.Sub(w.lastReset) >= rl.interval {
			delete(rl.windows, k)
		}
	}
	rl.lastSweep = now
}
