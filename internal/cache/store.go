// Package cache provides response cache backends for the Trendyol client.
// Every backend stores opaque JSON bytes under a string key with a
// time-to-live; expired entries read as misses.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Store defines the interface for response cache backends.
type Store interface {
	// Get returns the value stored under key. The boolean is false when the
	// key is absent or its entry has expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl. A non-positive ttl stores nothing.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the entry for key, if any.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// Options selects and configures a backend for Open.
type Options struct {
	Backend string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SQLitePath string

	PostgresDSN string
}

// Open constructs the Store named by opts.Backend. An empty backend
// selects the in-memory store.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStoreFromAddr(opts.RedisAddr, opts.RedisPassword, opts.RedisDB), nil
	case BackendSQLite:
		return NewSQLiteStore(ctx, opts.SQLitePath)
	case BackendPostgres:
		return NewPostgresStore(ctx, opts.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
