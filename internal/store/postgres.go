package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/serroba/url-shortener-go/internal/shortener"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool  *pgxpool.Pool
	newID func() string
}

// NewPostgresStore creates a new PostgreSQL-backed URL store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	newID, _ := nanoid.Standard(recordIDLength)

	return &PostgresStore{
		pool:  pool,
		newID: newID,
	}
}

func (p *PostgresStore) Create(ctx context.Context, url *shortener.ShortURL) error {
	query := `
		INSERT INTO short_urls (id, code, original_url)
		VALUES ($1, $2, $3)
		RETURNING click_count, created_at, updated_at
	`

	id := p.newID()

	err := p.pool.QueryRow(ctx, query, id, string(url.Code), url.OriginalURL).Scan(
		&url.ClickCount,
		&url.CreatedAt,
		&url.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: %w", shortener.ErrRecordCreation, shortener.ErrCodeExists)
		}

		return fmt.Errorf("%w: %w", shortener.ErrRecordCreation, err)
	}

	url.ID = id

	return nil
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	query := `
		SELECT id, code, original_url, click_count, created_at, updated_at
		FROM short_urls
		WHERE code = $1
	`

	var url shortener.ShortURL

	err := p.pool.QueryRow(ctx, query, string(code)).Scan(
		&url.ID,
		&url.Code,
		&url.OriginalURL,
		&url.ClickCount,
		&url.CreatedAt,
		&url.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, fmt.Errorf("%w: %w", shortener.ErrStoreUnavailable, err)
	}

	return &url, nil
}

func (p *PostgresStore) IncrementClicks(ctx context.Context, code shortener.Code) error {
	query := `
		UPDATE short_urls
		SET click_count = click_count + 1, updated_at = now()
		WHERE code = $1
	`

	tag, err := p.pool.Exec(ctx, query, string(code))
	if err != nil {
		return fmt.Errorf("%w: %w", shortener.ErrStoreUnavailable, err)
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
