package handlers

import (
	"context"

	"github.com/serroba/url-shortener-go/internal/shortener"
)

// URLService is the short URL core the handlers delegate to.
type URLService interface {
	Create(ctx context.Context, originalURL string) (*shortener.Created, error)
	Resolve(ctx context.Context, code shortener.Code) (*shortener.Resolution, error)
	IncrementClicks(ctx context.Context, code shortener.Code) error
	Stats(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error)
	FullURL(code shortener.Code) string
}

var _ URLService = (*shortener.Service)(nil)
