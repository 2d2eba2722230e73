//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/donaldgifford/trendyol-sp/internal/cache"
)

func setupPostgres(t *testing.T) *cache.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("trendyol_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := cache.NewPostgresStore(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func TestPostgresStore(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	t.Run("miss on empty table", func(t *testing.T) {
		_, ok, err := s.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "trendyol_GET_/brands", []byte(`{"brands":[]}`), time.Hour))

		got, ok, err := s.Get(ctx, "trendyol_GET_/brands")
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, `{"brands":[]}`, string(got))
	})

	t.Run("upsert replaces value", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "k", []byte("1"), time.Hour))
		require.NoError(t, s.Set(ctx, "k", []byte("2"), time.Hour))

		got, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "2", string(got))
	})

	t.Run("expired entry reads as miss", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "short", []byte("1"), 50*time.Millisecond))
		time.Sleep(100 * time.Millisecond)

		_, ok, err := s.Get(ctx, "short")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete and purge", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "k"))
		_, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = s.Purge(ctx)
		require.NoError(t, err)
	})
}

func TestRunMigrations_Idempotent(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	// Opening a second store against the same database reapplies nothing.
	require.NoError(t, s.Set(ctx, "k", []byte("1"), time.Hour))
	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", string(got))
}
