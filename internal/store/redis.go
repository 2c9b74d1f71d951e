package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/url-shortener-go/internal/shortener"
)

// DefaultCounterKey is the Redis key holding the ID counter.
const DefaultCounterKey = "shortener:counter"

// RedisCounter is a Redis implementation of shortener.Allocator.
// INCR is a single atomic round trip, so concurrent callers never share an ID.
type RedisCounter struct {
	client redis.Cmdable
	key    string
}

// NewRedisCounter creates an allocator over the given counter key.
func NewRedisCounter(client redis.Cmdable, key string) *RedisCounter {
	if key == "" {
		key = DefaultCounterKey
	}

	return &RedisCounter{
		client: client,
		key:    key,
	}
}

func (r *RedisCounter) NextID(ctx context.Context) (uint64, error) {
	id, err := r.client.Incr(ctx, r.key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", shortener.ErrAllocatorUnavailable, err)
	}

	if id <= 0 {
		return 0, fmt.Errorf("%w: counter %q returned %d", shortener.ErrAllocatorUnavailable, r.key, id)
	}

	return uint64(id), nil
}

// Compile-time check.
var _ shortener.Allocator = (*RedisCounter)(nil)
