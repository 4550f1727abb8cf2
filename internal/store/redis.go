package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions selects the redis instance backing the event queue and the
// shared rate limiter.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// Redis holds the shared client for queueing and rate limiting.
type Redis struct {
	Client *redis.Client
}

// NewRedis builds a client with short timeouts. It does not dial; callers
// check Healthy before relying on it.
func NewRedis(opts RedisOptions) *Redis {
	return &Redis{Client: redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})}
}

// Healthy pings redis. A nil handle is never healthy.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// Close releases the client's connections. It is safe on a nil handle.
func (r *Redis) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}

