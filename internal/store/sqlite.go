package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/mattn/go-sqlite3"
	"github.com/serroba/url-shortener-go/internal/shortener"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS short_urls (
		id           TEXT PRIMARY KEY,
		code         TEXT NOT NULL UNIQUE,
		original_url TEXT NOT NULL,
		click_count  INTEGER NOT NULL DEFAULT 0,
		created_at   INTEGER NOT NULL,
		updated_at   INTEGER NOT NULL
	)
`

// SQLiteStore is a SQLite implementation of shortener.Repository for single-node deployments.
// Timestamps are stored as unix nanoseconds.
type SQLiteStore struct {
	db    *sql.DB
	newID func() string
	now   func() time.Time
}

// NewSQLiteStore opens the database at dsn and creates the schema if needed.
func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite serializes writers; one connection also keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}

	newID, _ := nanoid.Standard(recordIDLength)

	return &SQLiteStore{
		db:    db,
		newID: newID,
		now:   time.Now,
	}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, url *shortener.ShortURL) error {
	id := s.newID()
	now := s.now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO short_urls (id, code, original_url, click_count, created_at, updated_at)
		 VALUES (?, ?, ?, 0, ?, ?)`,
		id, string(url.Code), url.OriginalURL, now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: %w", shortener.ErrRecordCreation, shortener.ErrCodeExists)
		}

		return fmt.Errorf("%w: %w", shortener.ErrRecordCreation, err)
	}

	url.ID = id
	url.ClickCount = 0
	url.CreatedAt = now
	url.UpdatedAt = now

	return nil
}

func (s *SQLiteStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	var (
		url                  shortener.ShortURL
		storedCode           string
		createdAt, updatedAt int64
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, code, original_url, click_count, created_at, updated_at
		 FROM short_urls WHERE code = ?`,
		string(code),
	).Scan(&url.ID, &storedCode, &url.OriginalURL, &url.ClickCount, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, fmt.Errorf("%w: query short url %q: %w", shortener.ErrStoreUnavailable, code, err)
	}

	url.Code = shortener.Code(storedCode)
	url.CreatedAt = time.Unix(0, createdAt).UTC()
	url.UpdatedAt = time.Unix(0, updatedAt).UTC()

	return &url, nil
}

func (s *SQLiteStore) IncrementClicks(ctx context.Context, code shortener.Code) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE short_urls SET click_count = click_count + 1, updated_at = ? WHERE code = ?`,
		s.now().UTC().UnixNano(), string(code),
	)
	if err != nil {
		return fmt.Errorf("%w: increment clicks for %q: %w", shortener.ErrStoreUnavailable, code, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: increment clicks for %q: %w", shortener.ErrStoreUnavailable, code, err)
	}

	if affected == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

// Shutdown closes the underlying database.
func (s *SQLiteStore) Shutdown() error {
	return s.db.Close()
}

// Compile-time check.
var _ shortener.Repository = (*SQLiteStore)(nil)
