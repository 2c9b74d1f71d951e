package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/url-shortener-go/internal/shortener"
)

// DefaultKeyPrefix namespaces code -> url mappings in Redis.
const DefaultKeyPrefix = "url:"

// RedisCache is a Redis implementation of shortener.Cache.
// Each mapping is a plain string key holding the original URL.
//
// The go-redis pool dials on first use and replaces broken connections before
// running a command, so the cache survives Redis restarts without help.
type RedisCache struct {
	client redis.Cmdable
	prefix string
}

// NewRedisCache creates a new Redis-backed resolution cache.
func NewRedisCache(client redis.Cmdable, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	return &RedisCache{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisCache) Get(ctx context.Context, code shortener.Code) (string, bool, error) {
	url, err := r.client.Get(ctx, r.key(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("%w: %w", shortener.ErrCacheUnavailable, err)
	}

	return url, true, nil
}

func (r *RedisCache) Set(ctx context.Context, code shortener.Code, originalURL string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(code), originalURL, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", shortener.ErrCacheUnavailable, err)
	}

	return nil
}

func (r *RedisCache) Delete(ctx context.Context, code shortener.Code) error {
	if err := r.client.Del(ctx, r.key(code)).Err(); err != nil {
		return fmt.Errorf("%w: %w", shortener.ErrCacheUnavailable, err)
	}

	return nil
}

func (r *RedisCache) key(code shortener.Code) string {
	return r.prefix + string(code)
}

// Compile-time check.
var _ shortener.Cache = (*RedisCache)(nil)
