package trendyol_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/trendyol-sp/internal/trendyol"
)

const (
	testSupplierID = "12345"
	testAPIKey     = "key"
	testAPISecret  = "secret"
	// base64("key:secret")
	testAuthorization = "Basic a2V5OnNlY3JldA=="
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

// sleepRecorder stands in for time.Sleep and remembers every delay.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *sleepRecorder) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

func testConfig(baseURL string) trendyol.Config {
	cfg := trendyol.DefaultConfig()
	cfg.SupplierID = testSupplierID
	cfg.APIKey = testAPIKey
	cfg.APISecret = testAPISecret
	cfg.BaseURL = baseURL
	cfg.RateLimitEnabled = false
	cfg.CacheEnabled = false
	cfg.Timeout = 5 * time.Second
	cfg.ConnectTimeout = time.Second
	return cfg
}

func newTestClient(
	t *testing.T,
	cfg trendyol.Config,
	opts ...trendyol.Option,
) (*trendyol.Client, *sleepRecorder) {
	t.Helper()

	sleeps := &sleepRecorder{}
	opts = append([]trendyol.Option{trendyol.WithSleepFunc(sleeps.Sleep)}, opts...)

	c, err := trendyol.New(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = c.Close()
	})
	return c, sleeps
}

// countingServer answers every request with handler and counts dispatches.
func countingServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func jsonResponse(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}
