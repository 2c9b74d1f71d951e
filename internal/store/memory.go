package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/serroba/url-shortener-go/internal/shortener"
)

// recordIDLength is the length of store-assigned record IDs.
const recordIDLength = 21

// MemoryOption configures the in-memory store and cache.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	now func() time.Time
}

// WithClock replaces time.Now, letting tests control timestamps and expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *memoryConfig) {
		c.now = now
	}
}

func newMemoryConfig(opts []MemoryOption) memoryConfig {
	cfg := memoryConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu     sync.RWMutex
	urls   map[shortener.Code]*shortener.ShortURL
	newID  func() string
	config memoryConfig
}

// NewMemoryStore creates a new in-memory URL store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	newID, _ := nanoid.Standard(recordIDLength)

	return &MemoryStore{
		urls:   make(map[shortener.Code]*shortener.ShortURL),
		newID:  newID,
		config: newMemoryConfig(opts),
	}
}

func (m *MemoryStore) Create(ctx context.Context, url *shortener.ShortURL) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", shortener.ErrRecordCreation, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.urls[url.Code]; exists {
		return fmt.Errorf("%w: %w", shortener.ErrRecordCreation, shortener.ErrCodeExists)
	}

	now := m.config.now().UTC()
	url.ID = m.newID()
	url.ClickCount = 0
	url.CreatedAt = now
	url.UpdatedAt = now

	stored := *url
	m.urls[url.Code] = &stored

	return nil
}

func (m *MemoryStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", shortener.ErrStoreUnavailable, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	url, ok := m.urls[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	found := *url

	return &found, nil
}

func (m *MemoryStore) IncrementClicks(ctx context.Context, code shortener.Code) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", shortener.ErrStoreUnavailable, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	url, ok := m.urls[code]
	if !ok {
		return shortener.ErrNotFound
	}

	url.ClickCount++
	url.UpdatedAt = m.config.now().UTC()

	return nil
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
