package trendyol

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/donaldgifford/trendyol-sp/internal/metrics"
)

// RateLimiter spaces outgoing requests so that no more than perSecond are
// dispatched in any one-second window. It wraps a token bucket with burst 1:
// the first call passes immediately and each following call waits until
// 1s/perSecond has elapsed since the previous one.
type RateLimiter struct {
	limiter   *rate.Limiter
	perSecond int
	waited    atomic.Int64
	nowFunc   func() time.Time
	sleepFunc func(context.Context, time.Duration) error
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// WithRateLimiterSleepFunc overrides how the limiter waits. Tests pair it
// with WithRateLimiterNowFunc to drive a fake clock.
func WithRateLimiterSleepFunc(f func(context.Context, time.Duration) error) RateLimiterOption {
	return func(r *RateLimiter) {
		r.sleepFunc = f
	}
}

// NewRateLimiter creates a limiter allowing perSecond requests per second.
// A disabled limiter, or one with perSecond <= 0, never waits.
func NewRateLimiter(enabled bool, perSecond int, opts ...RateLimiterOption) *RateLimiter {
	r := &RateLimiter{
		perSecond: perSecond,
		nowFunc:   time.Now,
		sleepFunc: sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	if enabled && perSecond > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return r
}

// Enabled reports whether Throttle can block.
func (r *RateLimiter) Enabled() bool {
	return r != nil && r.limiter != nil
}

// PerSecond returns the configured ceiling.
func (r *RateLimiter) PerSecond() int {
	return r.perSecond
}

// Waited returns the cumulative time spent waiting in Throttle.
func (r *RateLimiter) Waited() time.Duration {
	return time.Duration(r.waited.Load())
}

// Throttle blocks until the next request may be dispatched or ctx is done.
func (r *RateLimiter) Throttle(ctx context.Context) error {
	if !r.Enabled() {
		return nil
	}

	now := r.nowFunc()
	res := r.limiter.ReserveN(now, 1)
	if !res.OK() {
		return fmt.Errorf("rate limiter reserve: burst of %d exceeded", r.limiter.Burst())
	}

	delay := res.DelayFrom(now)
	if delay <= 0 {
		return nil
	}

	if err := r.sleepFunc(ctx, delay); err != nil {
		res.CancelAt(r.nowFunc())
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	r.waited.Add(int64(delay))
	metrics.ThrottleWaitSeconds.Observe(delay.Seconds())
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
