package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/trendyol-sp/internal/cache"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryStore_GetSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ttl     time.Duration
		advance time.Duration
		wantHit bool
	}{
		{name: "hit within ttl", ttl: time.Hour, advance: 59 * time.Minute, wantHit: true},
		{name: "miss at expiry", ttl: time.Hour, advance: time.Hour, wantHit: false},
		{name: "miss after expiry", ttl: time.Hour, advance: 2 * time.Hour, wantHit: false},
		{name: "zero ttl stores nothing", ttl: 0, advance: 0, wantHit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			clock := newFakeClock()
			s := cache.NewMemoryStore(cache.WithMemoryNowFunc(clock.Now))
			ctx := context.Background()

			require.NoError(t, s.Set(ctx, "k", []byte(`{"id":1}`), tt.ttl))
			clock.Advance(tt.advance)

			got, ok, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, tt.wantHit, ok)
			if tt.wantHit {
				assert.JSONEq(t, `{"id":1}`, string(got))
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestMemoryStore_ExpiredEntryDroppedOnRead(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := cache.NewMemoryStore(cache.WithMemoryNowFunc(clock.Now))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("1"), time.Minute))
	assert.Equal(t, 1, s.Len())

	clock.Advance(2 * time.Minute)
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	t.Parallel()

	s := cache.NewMemoryStore()
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", value, time.Minute))
	value[0] = 'z'

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", string(got))

	got[0] = 'y'
	again, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryStore_DeleteAndPurge(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := cache.NewMemoryStore(cache.WithMemoryNowFunc(clock.Now))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "short", []byte("1"), time.Minute))
	require.NoError(t, s.Set(ctx, "long", []byte("2"), time.Hour))
	require.NoError(t, s.Set(ctx, "gone", []byte("3"), time.Hour))

	require.NoError(t, s.Delete(ctx, "gone"))
	assert.Equal(t, 2, s.Len())

	clock.Advance(10 * time.Minute)
	assert.Equal(t, 1, s.Purge())
	assert.Equal(t, 1, s.Len())

	_, ok, err := s.Get(ctx, "long")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, s.Close())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	t.Parallel()

	s := cache.NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := []string{"a", "b", "c"}[i%3]
			_ = s.Set(ctx, key, []byte{byte(i)}, time.Minute)
			_, _, _ = s.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, s.Len())
}

func TestOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    cache.Options
		wantErr string
	}{
		{name: "default is memory", opts: cache.Options{}},
		{name: "explicit memory", opts: cache.Options{Backend: cache.BackendMemory}},
		{name: "sqlite in memory", opts: cache.Options{Backend: cache.BackendSQLite, SQLitePath: ":memory:"}},
		{name: "sqlite without path", opts: cache.Options{Backend: cache.BackendSQLite}, wantErr: "path is required"},
		{name: "unknown backend", opts: cache.Options{Backend: "memcached"}, wantErr: `unknown cache backend "memcached"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := cache.Open(context.Background(), tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, s)
			require.NoError(t, s.Close())
		})
	}
}
