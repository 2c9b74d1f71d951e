package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/url-shortener-go/internal/analytics"
)

// Event types stored in url_events.event_type.
const (
	EventCreated  = "created"
	EventAccessed = "accessed"
)

// Postgres appends analytics events to the url_events table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgreSQL-backed analytics store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) RecordCreated(ctx context.Context, event *analytics.URLCreatedEvent) error {
	return p.insert(ctx, EventCreated, event.Code, event.OriginalURL,
		event.ClientIP, event.UserAgent, "", event.CreatedAt)
}

func (p *Postgres) RecordAccessed(ctx context.Context, event *analytics.URLAccessedEvent) error {
	return p.insert(ctx, EventAccessed, event.Code, event.OriginalURL,
		event.ClientIP, event.UserAgent, event.Referrer, event.AccessedAt)
}

func (p *Postgres) insert(
	ctx context.Context,
	eventType, code, originalURL, clientIP, userAgent, referrer string,
	occurredAt time.Time,
) error {
	query := `
		INSERT INTO url_events (event_type, code, original_url, client_ip, user_agent, referrer, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	if _, err := p.pool.Exec(ctx, query,
		eventType, code, nullable(originalURL), nullable(clientIP), nullable(userAgent), nullable(referrer), occurredAt,
	); err != nil {
		return fmt.Errorf("insert %s event for %q: %w", eventType, code, err)
	}

	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

var _ analytics.Store = (*Postgres)(nil)
