package ratelimiter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestLimiter(limit int, interval time.Duration) (*MemoryLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := NewMemoryLimiter(limit, interval)
	rl.now = clock.Now
	rl.lastSweep = clock.Now()
	return rl, clock
}

func TestMemoryLimiter_AllowsUpToLimit(t *testing.T) {
	rl, _ := newTestLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(ctx, "1.2.3.4"), "request %d", i+1)
	}
	assert.False(t, rl.Allow(ctx, "1.2.3.4"))
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	assert.True(t, rl.Allow(ctx, "a"))
	assert.False(t, rl.Allow(ctx, "a"))
	assert.True(t, rl.Allow(ctx, "b"))
}

func TestMemoryLimiter_ResetsAfterInterval(t *testing.T) {
	rl, clock := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	assert.True(t, rl.Allow(ctx, "a"))
	assert.False(t, rl.Allow(ctx, "a"))

	clock.Advance(time.Minute)

	assert.True(t, rl.Allow(ctx, "a"))
}

func TestMemoryLimiter_SweepsExpiredWindows(t *testing.T) {
	rl, clock := newTestLimiter(5, time.Minute)
	ctx := context.Background()

	rl.Allow(ctx, "a")
	rl.Allow(ctx, "b")
	clock.Advance(2 * time.Minute)
	rl.Allow(ctx, "c")

	assert.Len(t, rl.windows, 1)
	assert.Contains(t, rl.windows, "c")
}

func TestMemoryLimiter_Concurrent(t *testing.T) {
	rl, _ := newTestLimiter(50, time.Minute)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow(ctx, "same") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}
