package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/url-shortener-go/internal/shortener"
	"go.uber.org/zap"
)

// toHTTPError maps core errors to API errors. Unexpected errors are logged
// and hidden behind a generic message.
func (h *URLHandler) toHTTPError(err error, code string) error {
	switch {
	case errors.Is(err, shortener.ErrNotFound):
		return huma.Error404NotFound("short url not found")
	case errors.Is(err, shortener.ErrAllocatorUnavailable),
		errors.Is(err, shortener.ErrCacheUnavailable),
		errors.Is(err, shortener.ErrStoreUnavailable):
		h.logger.Warn("backing store unavailable", zap.String("code", code), zap.Error(err))

		return huma.Error503ServiceUnavailable("service temporarily unavailable, retry later")
	case errors.Is(err, shortener.ErrRecordCreation):
		h.logger.Error("failed to create short url record", zap.Error(err))

		return huma.Error500InternalServerError("failed to save url")
	default:
		h.logger.Error("request failed", zap.String("code", code), zap.Error(err))

		return huma.Error500InternalServerError("internal server error")
	}
}
