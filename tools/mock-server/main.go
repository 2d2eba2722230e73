// Package main runs the sandbox seller API for local development. Point the
// client's base_url at it to work without real Trendyol credentials.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/donaldgifford/trendyol-sp/internal/sandbox"
	"github.com/donaldgifford/trendyol-sp/pkg/logger"
)

type options struct {
	port       int
	fixture    string
	supplierID string
	apiKey     string
	apiSecret  string
	latency    time.Duration
	faults     string
}

func main() {
	opts := options{}
	flag.IntVar(&opts.port, "port", 8089, "port to listen on")
	flag.StringVar(&opts.fixture, "fixture", "", "path to a seller fixture (built-in fixture when empty)")
	flag.StringVar(&opts.supplierID, "supplier-id", "12345", "supplier ID the sandbox accepts")
	flag.StringVar(&opts.apiKey, "api-key", "key", "API key the sandbox accepts")
	flag.StringVar(&opts.apiSecret, "api-secret", "secret", "API secret the sandbox accepts")
	flag.DurationVar(&opts.latency, "latency", 0, "delay added to every API response")
	flag.StringVar(&opts.faults, "faults", "", "comma-separated statuses for the first responses, -1 drops the connection")
	flag.Parse()

	log := logger.New("debug", "text")

	srv, err := newServer(opts, log)
	if err != nil {
		log.Error("failed to start sandbox", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("starting sandbox seller API", "addr", srv.Addr, "supplier_id", opts.supplierID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
}

func newServer(opts options, log *slog.Logger) (*http.Server, error) {
	sbOpts := []sandbox.Option{sandbox.WithLogger(log)}

	if opts.fixture != "" {
		data, err := os.ReadFile(opts.fixture) //nolint:gosec // fixture path from trusted CLI flag
		if err != nil {
			return nil, fmt.Errorf("reading fixture: %w", err)
		}
		f, err := sandbox.LoadFixture(data)
		if err != nil {
			return nil, err
		}
		sbOpts = append(sbOpts, sandbox.WithFixture(f))
	}

	faults, err := parseFaults(opts.faults)
	if err != nil {
		return nil, err
	}

	sb := sandbox.New(sandbox.Config{
		SupplierID: opts.supplierID,
		APIKey:     opts.apiKey,
		APISecret:  opts.apiSecret,
	}, sbOpts...)
	sb.SetLatency(opts.latency)
	sb.Fail(faults...)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.port),
		Handler:      sb.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10*time.Second + opts.latency,
	}, nil
}

func parseFaults(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		status, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("parsing fault %q: %w", part, err)
		}
		if status != sandbox.FaultDropConnection && (status < 100 || status > 599) {
			return nil, fmt.Errorf("fault %d is not an HTTP status", status)
		}
		out = append(out, status)
	}
	return out, nil
}
