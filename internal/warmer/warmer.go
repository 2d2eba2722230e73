// Package warmer keeps slow-changing reference data in the response cache.
// On a cron schedule it re-fetches every target with the cache lookup
// skipped, so the fresh response replaces the cached one and normal reads
// keep hitting the cache.
package warmer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/trendyol-sp/internal/metrics"
	"github.com/donaldgifford/trendyol-sp/internal/trendyol"
)

const defaultTimeout = 2 * time.Minute

// Target is one cached read to refresh.
type Target struct {
	Name  string
	Fetch func(ctx context.Context) error
}

// ClientTargets returns the reference reads worth warming: the category
// tree, the first brand page and the shipment provider list.
func ClientTargets(c *trendyol.Client) []Target {
	return []Target{
		{Name: "categories", Fetch: func(ctx context.Context) error {
			_, err := c.Categories().List(ctx)
			return err
		}},
		{Name: "brands", Fetch: func(ctx context.Context) error {
			_, err := c.Brands().List(ctx, nil)
			return err
		}},
		{Name: "shipment_providers", Fetch: func(ctx context.Context) error {
			_, err := c.ShipmentProviders().List(ctx)
			return err
		}},
	}
}

// Warmer runs its targets on a schedule.
type Warmer struct {
	cron    *cron.Cron
	targets []Target
	log     *slog.Logger
	timeout time.Duration
	nowFunc func() time.Time
}

// Option configures a Warmer.
type Option func(*Warmer)

// WithTimeout bounds one full run. The default is two minutes.
func WithTimeout(d time.Duration) Option {
	return func(w *Warmer) {
		w.timeout = d
	}
}

// WithNowFunc overrides the clock used for the last-run gauge.
func WithNowFunc(f func() time.Time) Option {
	return func(w *Warmer) {
		w.nowFunc = f
	}
}

// New registers targets to run on schedule, a standard five-field cron
// spec or an @every descriptor. Overlapping runs are skipped.
func New(schedule string, targets []Target, log *slog.Logger, opts ...Option) (*Warmer, error) {
	w := &Warmer{
		targets: targets,
		log:     log,
		timeout: defaultTimeout,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}

	cl := cronLogger{log: log}
	w.cron = cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	if _, err := w.cron.AddFunc(schedule, w.runScheduled); err != nil {
		return nil, fmt.Errorf("scheduling cache warmer %q: %w", schedule, err)
	}

	return w, nil
}

// Start begins running scheduled warm-ups.
func (w *Warmer) Start() {
	w.log.Info("cache warmer started", "targets", len(w.targets))
	w.cron.Start()
}

// Stop stops the schedule. The returned context is done once a running
// warm-up finishes.
func (w *Warmer) Stop() context.Context {
	w.log.Info("cache warmer stopping")
	return w.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (w *Warmer) Entries() []cron.Entry {
	return w.cron.Entries()
}

// Run refreshes every target once. A failing target does not stop the
// others; their errors are joined.
func (w *Warmer) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(trendyol.WithRefresh(ctx), w.timeout)
	defer cancel()

	start := w.nowFunc()
	var errs []error
	for _, t := range w.targets {
		if err := t.Fetch(ctx); err != nil {
			w.log.Warn("cache warm-up target failed", "target", t.Name, "error", err)
			errs = append(errs, fmt.Errorf("warming %s: %w", t.Name, err))
			continue
		}
		w.log.Debug("cache warm-up target refreshed", "target", t.Name)
	}

	end := w.nowFunc()
	metrics.WarmerLastRunTimestamp.Set(float64(end.Unix()))

	if err := errors.Join(errs...); err != nil {
		metrics.WarmerRunsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.WarmerRunsTotal.WithLabelValues("success").Inc()
	w.log.Info("cache warm-up completed",
		"targets", len(w.targets),
		"duration_ms", end.Sub(start).Milliseconds(),
	)
	return nil
}

func (w *Warmer) runScheduled() {
	if err := w.Run(context.Background()); err != nil {
		w.log.Error("scheduled cache warm-up failed", "error", err)
	}
}

// cronLogger routes cron's own messages to slog.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
