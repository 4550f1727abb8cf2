package queue

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the redis list holding pending change events.
const DefaultKey = "registration:events"

const (
	popTimeout   = 5 * time.Second
	retryBackoff = time.Second
)

// RedisQueue is a redis list shared by the API (producer) and the worker
// (consumer). Producers LPUSH, the consumer BRPOPs, so delivery is FIFO.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue builds a queue on the list at key, DefaultKey when empty.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = DefaultKey
	}
	return &RedisQueue{client: client, key: key}
}

// Publish pushes an encoded message onto the list.
func (q *RedisQueue) Publish(ctx context.Context, msg Message) error {
	raw, err := Encode(msg)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, raw).Err()
}

// Consume streams messages until ctx is done. Undecodable entries are
// skipped; connection errors are retried after a short pause.
func (q *RedisQueue) Consume(ctx context.Context) (<-chan Message, error) {
	out := make(chan Message)
	go func() {
		defer close(out)
		for {
			res, err := q.client.BRPop(ctx, popTimeout, q.key).Result()
			switch {
			case ctx.Err() != nil:
				return
			case errors.Is(err, redis.Nil):
				continue
			case err != nil:
				if !sleep(ctx, retryBackoff) {
					return
				}
				continue
			}
			if len(res) != 2 {
				continue
			}
			msg, err := Decode(res[1])
			if err != nil {
				continue
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
