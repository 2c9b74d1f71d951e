package handlers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/url-shortener-go/internal/analytics"
	"github.com/serroba/url-shortener-go/internal/base62"
	"github.com/serroba/url-shortener-go/internal/messaging"
	"github.com/serroba/url-shortener-go/internal/shortener"
	"go.uber.org/zap"
)

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service            URLService
	publishURLCreated  messaging.Publish[analytics.URLCreatedEvent]
	publishURLAccessed messaging.Publish[analytics.URLAccessedEvent]
	doubleCount        bool
	logger             *zap.Logger
}

// NewURLHandler creates a new URL handler.
// With doubleCountRedirects set, a redirect counts a second click after resolving.
func NewURLHandler(
	service URLService,
	publishURLCreated messaging.Publish[analytics.URLCreatedEvent],
	publishURLAccessed messaging.Publish[analytics.URLAccessedEvent],
	doubleCountRedirects bool,
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		service:            service,
		publishURLCreated:  publishURLCreated,
		publishURLAccessed: publishURLAccessed,
		doubleCount:        doubleCountRedirects,
		logger:             logger,
	}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	if err := validateURL(req.Body.URL); err != nil {
		return nil, err
	}

	created, err := h.service.Create(ctx, req.Body.URL)
	if err != nil {
		return nil, h.toHTTPError(err, "")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.URLCreatedEvent{
		Code:        string(created.Code),
		OriginalURL: created.OriginalURL,
		ShortURL:    created.FullURL,
		CreatedAt:   created.CreatedAt,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err = h.publishURLCreated(ctx, event); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &CreateShortURLResponse{}
	resp.Location = created.FullURL
	resp.Body.Code = string(created.Code)
	resp.Body.ShortURL = created.FullURL
	resp.Body.OriginalURL = created.OriginalURL
	resp.Body.CreatedAt = created.CreatedAt
	resp.Body.UpdatedAt = created.UpdatedAt

	return resp, nil
}

func (h *URLHandler) ResolveURL(ctx context.Context, req *CodeRequest) (*ResolveResponse, error) {
	res, err := h.resolve(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	resp := &ResolveResponse{}
	resp.Body.Code = string(res.Code)
	resp.Body.OriginalURL = res.OriginalURL

	return resp, nil
}

func (h *URLHandler) GetStats(ctx context.Context, req *CodeRequest) (*StatsResponse, error) {
	if !validCode(req.Code) {
		return nil, huma.Error404NotFound("short url not found")
	}

	record, err := h.service.Stats(ctx, shortener.Code(req.Code))
	if err != nil {
		return nil, h.toHTTPError(err, req.Code)
	}

	resp := &StatsResponse{}
	resp.Body.Code = string(record.Code)
	resp.Body.ShortURL = h.service.FullURL(record.Code)
	resp.Body.OriginalURL = record.OriginalURL
	resp.Body.ClickCount = record.ClickCount
	resp.Body.CreatedAt = record.CreatedAt
	resp.Body.UpdatedAt = record.UpdatedAt

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *CodeRequest) (*RedirectResponse, error) {
	res, err := h.resolve(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	if h.doubleCount {
		if err = h.service.IncrementClicks(ctx, res.Code); err != nil {
			h.logger.Warn("failed to count redirect",
				zap.String("code", req.Code),
				zap.Error(err),
			)
		}
	}

	// 302 keeps browsers coming back, so every visit is counted.
	return &RedirectResponse{
		Status:   http.StatusFound,
		Location: res.OriginalURL,
	}, nil
}

// resolve resolves code, counting one click, and publishes the access event.
func (h *URLHandler) resolve(ctx context.Context, code string) (*shortener.Resolution, error) {
	if !validCode(code) {
		return nil, huma.Error404NotFound("short url not found")
	}

	res, err := h.service.Resolve(ctx, shortener.Code(code))
	if err != nil {
		return nil, h.toHTTPError(err, code)
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.URLAccessedEvent{
		Code:        code,
		OriginalURL: res.OriginalURL,
		CacheHit:    res.CacheHit,
		AccessedAt:  time.Now(),
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
		Referrer:    meta.Referrer,
	}

	if err = h.publishURLAccessed(ctx, event); err != nil {
		h.logger.Error("failed to publish access event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	return res, nil
}

// validCode reports whether code could have been issued. Other codes are
// answered with 404 without touching the cache or store.
func validCode(code string) bool {
	_, err := base62.Decode(code)

	return err == nil
}

// validateURL accepts absolute http and https URLs only.
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return nil
	}

	return huma.Error422UnprocessableEntity("validation failed", &huma.ErrorDetail{
		Message:  "must be an absolute http or https URL",
		Location: "body.url",
		Value:    raw,
	})
}
