package store

import (
	"context"

	"github.com/serroba/url-shortener-go/internal/analytics"
	"go.uber.org/zap"
)

// Log writes events to a zap logger instead of a database. It backs the
// consumer when no analytics database is configured.
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger.Named("analytics")}
}

func (l *Log) RecordCreated(_ context.Context, event *analytics.URLCreatedEvent) error {
	l.logger.Info(EventCreated,
		zap.String("code", event.Code),
		zap.String("shortUrl", event.ShortURL),
		zap.String("originalUrl", event.OriginalURL),
		zap.String("clientIp", event.ClientIP),
		zap.Time("at", event.CreatedAt),
	)

	return nil
}

func (l *Log) RecordAccessed(_ context.Context, event *analytics.URLAccessedEvent) error {
	l.logger.Info(EventAccessed,
		zap.String("code", event.Code),
		zap.Bool("cacheHit", event.CacheHit),
		zap.String("clientIp", event.ClientIP),
		zap.String("referrer", event.Referrer),
		zap.Time("at", event.AccessedAt),
	)

	return nil
}

var _ analytics.Store = (*Log)(nil)
