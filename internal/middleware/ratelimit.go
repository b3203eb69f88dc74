package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	redispkg "github.com/folio-space/core/internal/pkg/redis"
	"github.com/folio-space/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	rateLimitMax    = 50
	rateLimitWindow = time.Second
	limiterIdleTTL  = 10 * time.Minute
)

// Limiter decides whether the client identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter is a fixed-window counter shared by every process using the same Redis.
type RedisLimiter struct {
	rdb    *redis.Client
	max    int64
	window time.Duration
}

func NewRedisLimiter(rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, max: rateLimitMax, window: rateLimitWindow}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := time.Now().UnixNano() / int64(l.window)
	redisKey := redispkg.Key("rate_limit", key, fmt.Sprint(bucket))

	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		l.rdb.PExpire(ctx, redisKey, l.window+time.Second)
	}
	return count <= l.max, nil
}

// MemoryLimiter keeps one token bucket per key in process memory.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	entries map[string]*limiterEntry
	now     func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return newMemoryLimiter(rate.Every(rateLimitWindow/rateLimitMax), rateLimitMax)
}

func newMemoryLimiter(limit rate.Limit, burst int) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		burst:   burst,
		entries: make(map[string]*limiterEntry),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok {
		l.evict(now)
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1), nil
}

func (l *MemoryLimiter) evict(now time.Time) {
	for k, e := range l.entries {
		if now.Sub(e.lastSeen) > limiterIdleTTL {
			delete(l.entries, k)
		}
	}
}

// RateLimit throttles anonymous clients by IP. Authenticated admins are exempt.
// Limiter errors let the request through.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAuthenticated(c) {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}
		if ok, _ := l.Allow(c.Request.Context(), ip); !ok {
			response.TooManyRequests(c)
			return
		}
		c.Next()
	}
}
