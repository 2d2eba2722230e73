package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultPoolSize = 4

// Compile-time interface check.
var _ Store = (*PostgresStore)(nil)

// PostgresStore is a Store backed by a trendyol_cache table in PostgreSQL.
// Expiry is lazy: rows past expires_at read as misses and are deleted on
// read or by Purge.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn, verifies the connection, and applies
// the cache schema migrations.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Get returns the unexpired value stored under key.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		value     []byte
		expiresAt time.Time
	)

	err := s.pool.QueryRow(ctx,
		"SELECT value, expires_at FROM trendyol_cache WHERE cache_key = $1",
		key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying cache entry: %w", err)
	}

	if !time.Now().Before(expiresAt) {
		if _, err := s.pool.Exec(ctx,
			"DELETE FROM trendyol_cache WHERE cache_key = $1 AND expires_at <= now()",
			key,
		); err != nil {
			return nil, false, fmt.Errorf("deleting expired cache entry: %w", err)
		}
		return nil, false, nil
	}

	return value, true, nil
}

// Set upserts value under key with expires_at = now + ttl.
func (s *PostgresStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	now := time.Now()
	args := pgx.NamedArgs{
		"cache_key":  key,
		"value":      value,
		"stored_at":  now,
		"expires_at": now.Add(ttl),
	}

	if _, err := s.pool.Exec(ctx, `
		INSERT INTO trendyol_cache (cache_key, value, stored_at, expires_at)
		VALUES (@cache_key, @value, @stored_at, @expires_at)
		ON CONFLICT (cache_key) DO UPDATE SET
			value      = EXCLUDED.value,
			stored_at  = EXCLUDED.stored_at,
			expires_at = EXCLUDED.expires_at
	`, args); err != nil {
		return fmt.Errorf("upserting cache entry: %w", err)
	}
	return nil
}

// Delete removes the row for key.
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx,
		"DELETE FROM trendyol_cache WHERE cache_key = $1",
		key,
	); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Purge deletes every expired row and returns how many were removed.
func (s *PostgresStore) Purge(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM trendyol_cache WHERE expires_at <= now()")
	if err != nil {
		return 0, fmt.Errorf("purging expired cache entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
