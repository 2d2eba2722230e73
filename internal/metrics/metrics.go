// Package metrics defines Prometheus metrics for the Trendyol client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trendyol"

// Request metrics.
var (
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of logical API requests in seconds, including retries and backoff.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "outcome"})

	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of logical API requests by outcome.",
	}, []string{"method", "outcome"})

	AttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attempts_total",
		Help:      "Total number of HTTP dispatches, including retries.",
	}, []string{"method", "status"})

	RetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retries_total",
		Help:      "Total number of retries scheduled after a transient failure.",
	}, []string{"method"})
)

// Rate limiter metrics.
var (
	ThrottleWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "throttle_wait_seconds",
		Help:      "Time spent waiting in the client-side rate limiter.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1, 2},
	})
)

// Cache metrics.
var (
	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of response cache lookups by result (hit, miss, error).",
	}, []string{"result"})

	CacheWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_writes_total",
		Help:      "Total number of response cache writes by result (ok, error).",
	}, []string{"result"})
)

// Warmer metrics.
var (
	WarmerRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "warmer_runs_total",
		Help:      "Total number of cache warm-up runs by result.",
	}, []string{"result"})

	WarmerLastRunTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "warmer_last_run_timestamp",
		Help:      "Unix timestamp of the last completed cache warm-up run.",
	})
)

// Sandbox server metrics.
var (
	SandboxRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "sandbox",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of requests served by the sandbox API in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	SandboxRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sandbox",
		Name:      "http_requests_total",
		Help:      "Total number of requests served by the sandbox API.",
	}, []string{"method", "path", "status"})

	SandboxFaultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sandbox",
		Name:      "injected_faults_total",
		Help:      "Total number of injected fault responses by status.",
	}, []string{"status"})
)
