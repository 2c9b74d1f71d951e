package shortener

import (
	"context"
	"time"
)

// Repository is the durable store of short URL records.
type Repository interface {
	// Create persists a new record and fills in ID, CreatedAt and UpdatedAt.
	// Failures are reported as ErrRecordCreation.
	Create(ctx context.Context, url *ShortURL) error

	// GetByCode returns ErrNotFound if no record has the code. Other
	// failures are reported as ErrStoreUnavailable.
	GetByCode(ctx context.Context, code Code) (*ShortURL, error)

	// IncrementClicks atomically adds one click to the record.
	// Returns ErrNotFound if no record has the code, ErrStoreUnavailable
	// on any other failure.
	IncrementClicks(ctx context.Context, code Code) error
}

// Cache is a volatile, expiring code -> original URL mapping.
// Failures are reported as ErrCacheUnavailable.
type Cache interface {
	Get(ctx context.Context, code Code) (originalURL string, found bool, err error)
	Set(ctx context.Context, code Code, originalURL string, ttl time.Duration) error
	Delete(ctx context.Context, code Code) error
}

// Allocator issues unique, strictly increasing IDs starting at 1.
// Failures are reported as ErrAllocatorUnavailable.
type Allocator interface {
	NextID(ctx context.Context) (uint64, error)
}
