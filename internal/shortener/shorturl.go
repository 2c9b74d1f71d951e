package shortener

import "time"

// Code represents a short URL code.
type Code string

// ShortURL represents a shortened URL entity as kept by the durable store.
type ShortURL struct {
	ID          string
	Code        Code
	OriginalURL string
	ClickCount  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Created is the result of shortening a URL.
type Created struct {
	ShortURL

	FullURL string
}

// Resolution is the result of resolving a code to its original URL.
type Resolution struct {
	Code        Code
	OriginalURL string
	CacheHit    bool
}
