package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/serroba/url-shortener-go/internal/shortener"
)

type cacheEntry struct {
	originalURL string
	expiresAt   time.Time // zero means no expiry
}

// MemoryCache is an in-process implementation of shortener.Cache and
// shortener.Allocator, for running without Redis.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[shortener.Code]cacheEntry
	counter atomic.Uint64
	config  memoryConfig
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	return &MemoryCache{
		entries: make(map[shortener.Code]cacheEntry),
		config:  newMemoryConfig(opts),
	}
}

// NextID returns the next counter value. The first value is 1.
func (c *MemoryCache) NextID(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", shortener.ErrAllocatorUnavailable, err)
	}

	return c.counter.Add(1), nil
}

func (c *MemoryCache) Get(ctx context.Context, code shortener.Code) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, fmt.Errorf("%w: %w", shortener.ErrCacheUnavailable, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[code]
	if !ok {
		return "", false, nil
	}

	if !entry.expiresAt.IsZero() && !c.config.now().Before(entry.expiresAt) {
		delete(c.entries, code)

		return "", false, nil
	}

	return entry.originalURL, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, code shortener.Code, originalURL string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", shortener.ErrCacheUnavailable, err)
	}

	entry := cacheEntry{originalURL: originalURL}
	if ttl > 0 {
		entry.expiresAt = c.config.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[code] = entry
	c.mu.Unlock()

	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, code shortener.Code) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", shortener.ErrCacheUnavailable, err)
	}

	c.mu.Lock()
	delete(c.entries, code)
	c.mu.Unlock()

	return nil
}

// Compile-time checks.
var (
	_ shortener.Cache     = (*MemoryCache)(nil)
	_ shortener.Allocator = (*MemoryCache)(nil)
)
