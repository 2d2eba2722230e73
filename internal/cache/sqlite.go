package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore is a persistent Store backed by SQLite. Timestamps are stored
// as Unix nanoseconds; expiry is lazy.
type SQLiteStore struct {
	db      *sql.DB
	nowFunc func() time.Time
}

// SQLiteOption configures the SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithSQLiteNowFunc overrides the time function for testing.
func WithSQLiteNowFunc(f func() time.Time) SQLiteOption {
	return func(s *SQLiteStore) {
		s.nowFunc = f
	}
}

// NewSQLiteStore opens (or creates) a SQLite database at path and creates
// the cache table. Use ":memory:" for a throwaway database.
func NewSQLiteStore(ctx context.Context, path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite cache path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS trendyol_cache (
			cache_key  TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			stored_at  INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating trendyol_cache table: %w", err)
	}

	s := &SQLiteStore{db: db, nowFunc: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Get returns the unexpired value stored under key.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		value     []byte
		expiresAt int64
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM trendyol_cache WHERE cache_key = ?`, key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying cache entry: %w", err)
	}

	now := s.nowFunc().UnixNano()
	if now >= expiresAt {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM trendyol_cache WHERE cache_key = ? AND expires_at <= ?`, key, now,
		); err != nil {
			return nil, false, fmt.Errorf("deleting expired cache entry: %w", err)
		}
		return nil, false, nil
	}

	return value, true, nil
}

// Set upserts value under key until now+ttl.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	now := s.nowFunc()
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO trendyol_cache (cache_key, value, stored_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET
			value = excluded.value,
			stored_at = excluded.stored_at,
			expires_at = excluded.expires_at
	`, key, value, now.UnixNano(), now.Add(ttl).UnixNano()); err != nil {
		return fmt.Errorf("upserting cache entry: %w", err)
	}
	return nil
}

// Delete removes the row for key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM trendyol_cache WHERE cache_key = ?`, key,
	); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Purge deletes every expired row and returns how many were removed.
func (s *SQLiteStore) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM trendyol_cache WHERE expires_at <= ?`, s.nowFunc().UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("purging expired cache entries: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
