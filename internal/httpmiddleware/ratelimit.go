package httpmiddleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"registration/internal/metrics"
)

// Limiter decides whether the client identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit enforces per-IP limits. Limiter errors fail open.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		ok, err := l.Allow(c.Request.Context(), ip)
		if err != nil {
			slog.Warn("rate limiter unavailable", slog.Any("error", err))
		}
		if !ok {
			metrics.RateLimited.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit"})
			return
		}
		c.Next()
	}
}

// sweepEvery is how often idle per-client buckets are pruned.
const sweepEvery = time.Minute

// SimpleTokenBucket is an in-memory per-client limiter for a single
// instance. Tokens refill at perMinute; a bucket idle long enough to be full
// again is dropped, since a fresh bucket behaves the same.
type SimpleTokenBucket struct {
	capacity  int
	interval  time.Duration
	mu        sync.Mutex
	state     map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	tokens int
	last   time.Time
}

// NewSimpleTokenBucket creates limiter with capacity tokens and rate per minute.
func NewSimpleTokenBucket(capacity, perMinute int) *SimpleTokenBucket {
	if perMinute <= 0 {
		perMinute = 1
	}
	if capacity <= 0 {
		capacity = perMinute
	}
	return &SimpleTokenBucket{
		capacity: capacity,
		interval: time.Minute / time.Duration(perMinute),
		state:    make(map[string]*bucket),
		now:      time.Now,
	}
}

// Allow implements Limiter.
func (l *SimpleTokenBucket) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= sweepEvery {
		l.sweep(now)
	}

	b, ok := l.state[key]
	if !ok {
		l.state[key] = &bucket{tokens: l.capacity - 1, last: now}
		return true, nil
	}
	if refill := int(now.Sub(b.last) / l.interval); refill > 0 {
		b.tokens += refill
		if b.tokens >= l.capacity {
			b.tokens = l.capacity
			b.last = now
		} else {
			// Keep the partial interval so slow trickles still earn tokens.
			b.last = b.last.Add(time.Duration(refill) * l.interval)
		}
	}
	if b.tokens <= 0 {
		return false, nil
	}
	b.tokens--
	return true, nil
}

func (l *SimpleTokenBucket) sweep(now time.Time) {
	full := time.Duration(l.capacity) * l.interval
	for key, b := range l.state {
		if now.Sub(b.last) >= full {
			delete(l.state, key)
		}
	}
	l.lastSweep = now
}

// RedisLimiter shares a fixed one-minute window across instances.
type RedisLimiter struct {
	client    *redis.Client
	prefix    string
	perMinute int
	now       func() time.Time
}

// NewRedisLimiter builds a limiter counting in redis under prefix.
func NewRedisLimiter(client *redis.Client, prefix string, perMinute int) *RedisLimiter {
	if prefix == "" {
		prefix = "registration:ratelimit"
	}
	return &RedisLimiter{client: client, prefix: prefix, perMinute: perMinute, now: time.Now}
}

// Allow implements Limiter. On redis errors it allows the request.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.windowKey(key)
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("redis limiter: %w", err)
	}
	return incr.Val() <= int64(l.perMinute), nil
}

func (l *RedisLimiter) windowKey(key string) string {
	return fmt.Sprintf("%s:%s:%d", l.prefix, key, l.now().Unix()/60)
}
