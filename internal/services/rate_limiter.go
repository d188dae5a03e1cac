package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter bounds comment submissions per identity per fixed window.
// Denial is a normal false result, not an error.
type RateLimiter interface {
	TryAcquire(ctx context.Context, identity string) bool
}

type rateWindow struct {
	start time.Time
	count int
}

// MemoryRateLimiter keeps fixed-window counters in process. The whole
// read-modify-write happens under one mutex so concurrent submissions from the
// same identity can never overshoot the ceiling.
type MemoryRateLimiter struct {
	mu        sync.Mutex
	windows   map[string]*rateWindow
	limit     int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryRateLimiter(limit int, window time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		windows:   make(map[string]*rateWindow),
		limit:     limit,
		window:    window,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *MemoryRateLimiter) TryAcquire(_ context.Context, identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	// Lapsed windows are dead weight. Sweep at most once per window so the map
	// stays bounded by the identities active in the current window.
	if now.Sub(l.lastSweep) >= l.window {
		for id, w := range l.windows {
			if now.Sub(w.start) >= l.window {
				delete(l.windows, id)
			}
		}
		l.lastSweep = now
	}

	w, ok := l.windows[identity]
	if !ok || now.Sub(w.start) >= l.window {
		// Crossing the boundary resets the counter, overwriting in place.
		l.windows[identity] = &rateWindow{start: now, count: 1}
		return true
	}
	if w.count < l.limit {
		w.count++
		return true
	}
	return false
}

// redisAcquireScript increments the per-identity counter and stamps the window
// TTL in one round trip, which keeps the check-then-update atomic across
// processes.
var redisAcquireScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RedisRateLimiter shares the window counters through Redis so all processes
// see the same budget.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: window}
}

func (l *RedisRateLimiter) TryAcquire(ctx context.Context, identity string) bool {
	count, err := redisAcquireScript.Run(ctx, l.client,
		[]string{"ratelimit:" + identity},
		l.window.Milliseconds(),
	).Int64()
	if err != nil {
		// Fail open when Redis is unreachable.
		slog.Error("rate limiter redis call failed", "error", err)
		return true
	}
	return count <= int64(l.limit)
}
