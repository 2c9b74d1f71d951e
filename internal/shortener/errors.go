package shortener

import "errors"

var (
	// ErrNotFound indicates the code is unknown to the durable store.
	ErrNotFound = errors.New("short url not found")

	// ErrAllocatorUnavailable indicates the counter backend could not be reached.
	// Callers may retry.
	ErrAllocatorUnavailable = errors.New("id allocator unavailable")

	// ErrStoreUnavailable indicates the durable store could not serve a read
	// or click update. Callers may retry.
	ErrStoreUnavailable = errors.New("url store unavailable")

	// ErrCacheUnavailable indicates the cache backend could not be reached.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrRecordCreation indicates the durable store rejected a new record.
	ErrRecordCreation = errors.New("short url record creation failed")

	// ErrCodeExists indicates a record with the same code is already stored.
	// It is always reported together with ErrRecordCreation.
	ErrCodeExists = errors.New("short code already exists")
)
