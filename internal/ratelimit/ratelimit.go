package ratelimit

import (
	"context"
	"strconv"
	"sync"
	"time"

	"carmate-platform/internal/apperr"
	"carmate-platform/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Limiter decides whether a caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// RedisLimiter is a fixed-window counter per key. The window granularity is
// coarse (a burst can span two windows) but the state lives in Redis, so the
// limit holds across API replicas.
type RedisLimiter struct {
	rdb    *redis.Client
	max    int
	window time.Duration
}

func NewRedisLimiter(rdb *redis.Client, cfg config.RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, max: cfg.MaxRequests, window: cfg.Window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	// A zero limit disables the limiter entirely.
	if l.max <= 0 {
		return Decision{Allowed: true}, nil
	}

	rkey := "ratelimit:" + key

	pipe := l.rdb.TxPipeline()
	count := pipe.Incr(ctx, rkey)
	pipe.ExpireNX(ctx, rkey, l.window)
	ttl := pipe.TTL(ctx, rkey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	if count.Val() > int64(l.max) {
		retry := ttl.Val()
		if retry <= 0 {
			retry = l.window
		}
		return Decision{Allowed: false, RetryAfter: retry}, nil
	}
	return Decision{Allowed: true}, nil
}

// MemoryLimiter mirrors RedisLimiter's fixed-window behavior in-process.
// For tests and single-instance local runs.
type MemoryLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	counts map[string]int
	resets map[string]time.Time
	clock  func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:    max,
		window: window,
		counts: make(map[string]int),
		resets: make(map[string]time.Time),
		clock:  time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	if l.max <= 0 {
		return Decision{Allowed: true}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if reset, ok := l.resets[key]; !ok || now.After(reset) {
		l.counts[key] = 0
		l.resets[key] = now.Add(l.window)
	}
	l.counts[key]++
	if l.counts[key] > l.max {
		return Decision{Allowed: false, RetryAfter: l.resets[key].Sub(now)}, nil
	}
	return Decision{Allowed: true}, nil
}

// Middleware rejects over-limit requests with 429 and the standard error
// envelope. The limiter keys on client IP. A limiter error fails open:
// an unreachable Redis must not take the API down with it.
func Middleware(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.Next()
			return
		}
		if !d.Allowed {
			e := apperr.RateLimited()
			c.Header("Retry-After", strconv.Itoa(int(d.RetryAfter.Seconds())+1))
			c.AbortWithStatusJSON(e.Status, gin.H{
				"success": false,
				"error":   gin.H{"code": e.Code, "message": e.Message},
			})
			return
		}
		c.Next()
	}
}
