package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RequestRate returns logical requests per second split by outcome.
func RequestRate() *timeseries.PanelBuilder {
	return series("Request Rate", "Logical API requests per second by outcome", ThirdWidth).
		WithTarget(PromQuery(`sum by (outcome) (rate(trendyol_requests_total[5m]))`, "{{outcome}}", "A")).
		Unit("reqps")
}

// RequestLatency returns latency percentiles for logical requests,
// including time spent in retries and backoff.
func RequestLatency() *timeseries.PanelBuilder {
	return quantiles(
		series("Request Latency", "Logical request duration percentiles, retries included", ThirdWidth),
		"trendyol_request_duration_seconds", "",
	).Unit("s")
}

// FailureRatio returns the share of requests that ended in an error.
func FailureRatio() *timeseries.PanelBuilder {
	return series("Failure %", "Requests ending in a validation, transport or retry-exhausted error", ThirdWidth).
		WithTarget(PromQuery(
			`trendyol:requests_failed:rate5m / trendyol:requests:rate5m * 100`,
			"failed %", "A",
		)).
		Unit("percent").
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds())
}

// AttemptsByStatus returns HTTP dispatches per second by response status.
func AttemptsByStatus() *timeseries.PanelBuilder {
	return series("Attempts by Status", "HTTP dispatches per second by status, retries included", TSWidth).
		WithTarget(PromQuery(`sum by (status) (rate(trendyol_attempts_total[5m]))`, "{{status}}", "A")).
		Unit("reqps")
}

// RetryRate returns retries scheduled per second by HTTP method.
func RetryRate() *timeseries.PanelBuilder {
	return series("Retry Rate", "Retries scheduled after a transient failure", TSWidth).
		WithTarget(PromQuery(`trendyol:retries:rate5m`, "{{method}}", "A")).
		Unit("reqps")
}
