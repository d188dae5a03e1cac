package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryRateLimiterWindow(t *testing.T) {
	limiter := NewMemoryRateLimiter(5, time.Hour)
	now := time.Now()
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.TryAcquire(ctx, "alice"), "attempt %d should pass", i+1)
	}
	assert.False(t, limiter.TryAcquire(ctx, "alice"), "sixth attempt must be denied")

	// A different identity has its own budget.
	assert.True(t, limiter.TryAcquire(ctx, "bob"))

	// Crossing the window boundary resets the counter.
	now = now.Add(time.Hour + time.Second)
	assert.True(t, limiter.TryAcquire(ctx, "alice"))
}

func TestMemoryRateLimiterDenialIsNotSticky(t *testing.T) {
	limiter := NewMemoryRateLimiter(1, time.Hour)
	now := time.Now()
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	assert.True(t, limiter.TryAcquire(ctx, "alice"))
	assert.False(t, limiter.TryAcquire(ctx, "alice"))
	assert.False(t, limiter.TryAcquire(ctx, "alice"))

	now = now.Add(2 * time.Hour)
	assert.True(t, limiter.TryAcquire(ctx, "alice"))
}

func TestMemoryRateLimiterSweepsLapsedWindows(t *testing.T) {
	limiter := NewMemoryRateLimiter(5, time.Hour)
	now := time.Now()
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	assert.True(t, limiter.TryAcquire(ctx, "alice"))
	assert.True(t, limiter.TryAcquire(ctx, "bob"))

	// Once everyone's window lapses the next acquisition prunes the stale
	// entries instead of letting the map grow with every identity ever seen.
	now = now.Add(2 * time.Hour)
	assert.True(t, limiter.TryAcquire(ctx, "carol"))

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Len(t, limiter.windows, 1)
	_, ok := limiter.windows["carol"]
	assert.True(t, ok)
}

func TestMemoryRateLimiterConcurrentNoOvershoot(t *testing.T) {
	const limit = 5
	limiter := NewMemoryRateLimiter(limit, time.Hour)
	ctx := context.Background()

	var granted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.TryAcquire(ctx, "alice") {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(limit), granted.Load())
}
