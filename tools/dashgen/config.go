package main

import "errors"

// KnownMetrics lists every series the dashboard and rules may reference:
// the client and sandbox metrics, the recording rules built on them, and
// the Prometheus built-ins. Histograms are listed by base name.
var KnownMetrics = map[string]bool{
	// Request pipeline.
	"trendyol_request_duration_seconds": true,
	"trendyol_requests_total":           true,
	"trendyol_attempts_total":           true,
	"trendyol_retries_total":            true,
	"trendyol_throttle_wait_seconds":    true,

	// Response cache.
	"trendyol_cache_lookups_total": true,
	"trendyol_cache_writes_total":  true,

	// Warmer.
	"trendyol_warmer_runs_total":         true,
	"trendyol_warmer_last_run_timestamp": true,

	// Sandbox.
	"trendyol_sandbox_http_request_duration_seconds": true,
	"trendyol_sandbox_http_requests_total":           true,
	"trendyol_sandbox_injected_faults_total":         true,

	// Recording rules.
	"trendyol:requests:rate5m":          true,
	"trendyol:requests_failed:rate5m":   true,
	"trendyol:requests_success:ratio5m": true,
	"trendyol:retries:rate5m":           true,
	"trendyol:cache_hit:ratio5m":        true,
	"trendyol:throttle_wait:p95_5m":     true,

	"up": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig writes everything into ../../deploy, relative to tools/dashgen.
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	var errs []error
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output directory must be set"))
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		errs = append(errs, errors.New("at least one of dashboard or rules must be enabled"))
	}
	return errors.Join(errs...)
}
