package shortener

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/serroba/url-shortener-go/internal/base62"
	"github.com/serroba/url-shortener-go/internal/metrics"
	"go.uber.org/zap"
)

// DefaultCacheTTL is how long a resolved mapping stays in the cache.
const DefaultCacheTTL = 24 * time.Hour

// Service creates short URLs and resolves them using a cache-aside strategy
// in front of the durable Repository.
type Service struct {
	allocator    Allocator
	store        Repository
	cache        Cache
	baseURL      string
	cacheTTL     time.Duration
	cacheTimeout time.Duration
	logger       *zap.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithBaseURL sets the prefix used to build full short URLs.
func WithBaseURL(baseURL string) ServiceOption {
	return func(s *Service) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithCacheTTL overrides DefaultCacheTTL.
func WithCacheTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithCacheTimeout bounds every cache call. Zero means only the caller's deadline applies.
func WithCacheTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		s.cacheTimeout = timeout
	}
}

// WithLogger sets the logger used for absorbed cache failures.
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new short URL service.
func NewService(allocator Allocator, store Repository, cache Cache, opts ...ServiceOption) *Service {
	s := &Service{
		allocator: allocator,
		store:     store,
		cache:     cache,
		cacheTTL:  DefaultCacheTTL,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FullURL joins the configured base URL and code.
func (s *Service) FullURL(code Code) string {
	return fmt.Sprintf("%s/%s", s.baseURL, code)
}

// Create allocates a new code for originalURL and persists it.
// Only allocation and persistence can fail the call; populating the cache is best effort.
func (s *Service) Create(ctx context.Context, originalURL string) (*Created, error) {
	id, err := s.allocator.NextID(ctx)
	if err != nil {
		return nil, err
	}

	metrics.IDsAllocated.Inc()

	shortURL := &ShortURL{
		Code:        Code(base62.Encode(id)),
		OriginalURL: originalURL,
	}

	if err = s.store.Create(ctx, shortURL); err != nil {
		return nil, err
	}

	s.cacheURL(ctx, shortURL.Code, shortURL.OriginalURL)

	return &Created{
		ShortURL: *shortURL,
		FullURL:  s.FullURL(shortURL.Code),
	}, nil
}

// Resolve returns the original URL for code and counts exactly one click.
// A cached mapping is returned without reading the durable record.
func (s *Service) Resolve(ctx context.Context, code Code) (*Resolution, error) {
	if originalURL, ok := s.lookup(ctx, code); ok {
		if err := s.store.IncrementClicks(ctx, code); err != nil {
			if errors.Is(err, ErrNotFound) {
				// The record is gone; the cached mapping is stale.
				s.evict(ctx, code)
			}

			return nil, s.resolveFailed(err)
		}

		metrics.Resolutions.WithLabelValues(metrics.ResolveFound).Inc()

		return &Resolution{Code: code, OriginalURL: originalURL, CacheHit: true}, nil
	}

	shortURL, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return nil, s.resolveFailed(err)
	}

	if err = s.store.IncrementClicks(ctx, code); err != nil {
		return nil, s.resolveFailed(err)
	}

	s.cacheURL(ctx, code, shortURL.OriginalURL)

	metrics.Resolutions.WithLabelValues(metrics.ResolveFound).Inc()

	return &Resolution{Code: code, OriginalURL: shortURL.OriginalURL}, nil
}

// IncrementClicks counts one click for code without resolving it.
func (s *Service) IncrementClicks(ctx context.Context, code Code) error {
	return s.store.IncrementClicks(ctx, code)
}

// Invalidate removes the cached mapping for code. The next Resolve reads the durable store.
func (s *Service) Invalidate(ctx context.Context, code Code) error {
	ctx, cancel := s.cacheContext(ctx)
	defer cancel()

	return s.cache.Delete(ctx, code)
}

// Stats returns the durable record for code, including its click count.
func (s *Service) Stats(ctx context.Context, code Code) (*ShortURL, error) {
	return s.store.GetByCode(ctx, code)
}

// lookup reads the cache. Any cache failure is treated as a miss.
func (s *Service) lookup(ctx context.Context, code Code) (string, bool) {
	cacheCtx, cancel := s.cacheContext(ctx)
	defer cancel()

	originalURL, found, err := s.cache.Get(cacheCtx, code)
	if err != nil {
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		s.logger.Warn("cache lookup failed, reading from store",
			zap.String("code", string(code)),
			zap.Error(err),
		)

		return "", false
	}

	if !found {
		metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()

		return "", false
	}

	metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()

	return originalURL, true
}

func (s *Service) cacheURL(ctx context.Context, code Code, originalURL string) {
	ctx, cancel := s.cacheContext(ctx)
	defer cancel()

	if err := s.cache.Set(ctx, code, originalURL, s.cacheTTL); err != nil {
		metrics.CacheWriteFailures.Inc()
		s.logger.Warn("failed to cache url mapping",
			zap.String("code", string(code)),
			zap.Error(err),
		)
	}
}

func (s *Service) evict(ctx context.Context, code Code) {
	if err := s.Invalidate(ctx, code); err != nil {
		s.logger.Warn("failed to evict stale url mapping",
			zap.String("code", string(code)),
			zap.Error(err),
		)
	}
}

func (s *Service) cacheContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cacheTimeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, s.cacheTimeout)
}

func (s *Service) resolveFailed(err error) error {
	if errors.Is(err, ErrNotFound) {
		metrics.Resolutions.WithLabelValues(metrics.ResolveNotFound).Inc()
	} else {
		metrics.Resolutions.WithLabelValues(metrics.ResolveError).Inc()
	}

	return err
}
