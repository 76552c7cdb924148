package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"careers-portal-backend/internal/delivery/http/response"
	"careers-portal-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key prefix for Redis
	KeyPrefix string
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: current count
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

// RateLimit limits requests per client IP within a fixed window. Counts
// live in Redis when a client is provided; otherwise a per-process
// sync.Map fallback keeps the endpoint protected on a single instance.
func RateLimit(rdb *goredis.Client, cfg RateLimitConfig) gin.HandlerFunc {
	var (
		store       sync.Map
		cleanupOnce sync.Once
	)

	return func(c *gin.Context) {
		key := fmt.Sprintf("%s%s", cfg.KeyPrefix, c.ClientIP())

		var count int
		if rdb != nil {
			res, err := rdb.Eval(c.Request.Context(), rateLimitLuaScript,
				[]string{key}, int(cfg.Window.Seconds())).Int()
			if err != nil {
				// Fail open: a broken limiter must not take the API down.
				logger.Log.Warn("Rate limiter redis error, allowing request", "error", err)
				c.Next()
				return
			}
			count = res
		} else {
			cleanupOnce.Do(func() { go cleanupExpired(&store) })
			count = incrInMemory(&store, key, cfg.Window)
		}

		remaining := cfg.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > cfg.Limit {
			response.Error(c, http.StatusTooManyRequests, "Too many requests. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func incrInMemory(store *sync.Map, key string, window time.Duration) int {
	now := time.Now()
	val, _ := store.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(window)})
	entry := val.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(window)
	}
	entry.count++
	return entry.count
}

// cleanupExpired drops stale counters so the fallback map does not grow
// without bound.
func cleanupExpired(store *sync.Map) {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		now := time.Now()
		store.Range(func(key, value interface{}) bool {
			entry := value.(*rateLimitEntry)
			entry.mu.Lock()
			if now.After(entry.resetAt) {
				store.Delete(key)
			}
			entry.mu.Unlock()
			return true
		})
	}
}
