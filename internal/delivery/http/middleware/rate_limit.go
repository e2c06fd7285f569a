package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/audit"
	"portfolio-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

const msgTooManyMessages = "Too many messages. Please try again later."

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// KeyFunc picks the bucket for a request (default: client IP)
	KeyFunc   func(*gin.Context) string
	KeyPrefix string
	// Client is optional; without it counters live in process memory only
	Client *goredis.Client
	Audit  *audit.Logger
}

// ContactRateLimitConfig limits contact submissions per client IP.
func ContactRateLimitConfig(limit int, window time.Duration, client *goredis.Client, auditLog *audit.Logger) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:contact:",
		Client:    client,
		Audit:     auditLog,
	}
}

// windowCounter counts hits for a key inside a fixed window.
type windowCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
}

// RateLimitMiddleware counts in Redis when a client is configured and falls
// back to process memory when Redis is missing or failing. It never blocks a
// message because the store is down. The 429 is rendered by ErrorHandler.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}

	fallback := sharedMemoryCounter()
	var primary windowCounter = fallback
	if config.Client != nil {
		primary = &redisCounter{client: config.Client}
	}

	return func(c *gin.Context) {
		key := config.KeyPrefix + keyFunc(c)

		count, resetAt, err := primary.Hit(c.Request.Context(), key, config.Window)
		if err != nil {
			logger.Log.Warn("rate limit store unavailable, counting in memory", "error", err)
			count, resetAt, _ = fallback.Hit(c.Request.Context(), key, config.Window)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			if config.Audit != nil {
				config.Audit.LogRateLimitTriggered(c.Request.Context(), c.ClientIP(), c.GetString(requestIDKey), c.FullPath())
			}

			_ = c.Error(apperror.TooManyRequests(msgTooManyMessages))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(config.Limit-count, 0)))
		c.Next()
	}
}

// INCR and EXPIRE run atomically; returns {count, ttl_seconds}.
var hitScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return {count, redis.call('TTL', KEYS[1])}
`)

type redisCounter struct {
	client *goredis.Client
}

func (r *redisCounter) Hit(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	res, err := hitScript.Run(ctx, r.client, []string{key}, int(window.Seconds())).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit: %w", err)
	}
	if len(res) < 2 {
		return 0, time.Time{}, fmt.Errorf("redis rate limit: unexpected reply %v", res)
	}
	return int(res[0]), time.Now().Add(time.Duration(res[1]) * time.Second), nil
}

type memoryBucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
	retired bool // removed from the map by sweep
}

type memoryCounter struct {
	buckets sync.Map
	now     func() time.Time
}

var (
	memoryCounterOnce sync.Once
	memoryCounterInst *memoryCounter
)

// sharedMemoryCounter is process-wide so every limiter sees the same buckets.
func sharedMemoryCounter() *memoryCounter {
	memoryCounterOnce.Do(func() {
		memoryCounterInst = newMemoryCounter(time.Now)
		go memoryCounterInst.sweep(5 * time.Minute)
	})
	return memoryCounterInst
}

func newMemoryCounter(now func() time.Time) *memoryCounter {
	return &memoryCounter{now: now}
}

func (m *memoryCounter) Hit(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	now := m.now()
	for {
		v, _ := m.buckets.LoadOrStore(key, &memoryBucket{resetAt: now.Add(window)})
		b := v.(*memoryBucket)

		b.mu.Lock()
		if b.retired {
			// Swept between LoadOrStore and Lock; count on the fresh bucket.
			b.mu.Unlock()
			continue
		}
		if now.After(b.resetAt) {
			b.count = 0
			b.resetAt = now.Add(window)
		}
		b.count++
		count, resetAt := b.count, b.resetAt
		b.mu.Unlock()
		return count, resetAt, nil
	}
}

func (m *memoryCounter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		m.sweepExpired()
	}
}

func (m *memoryCounter) sweepExpired() {
	now := m.now()
	m.buckets.Range(func(key, v any) bool {
		b := v.(*memoryBucket)
		b.mu.Lock()
		if now.After(b.resetAt) && m.buckets.CompareAndDelete(key, b) {
			b.retired = true
		}
		b.mu.Unlock()
		return true
	})
}
