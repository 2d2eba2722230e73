package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// CacheLookups returns cache lookups per second by result.
func CacheLookups() *timeseries.PanelBuilder {
	return series("Cache Lookups", "Response cache lookups by result", ThirdWidth).
		WithTarget(PromQuery(`sum by (result) (rate(trendyol_cache_lookups_total[5m]))`, "{{result}}", "A")).
		Unit("ops")
}

// CacheWrites returns cache writes per second by result.
func CacheWrites() *timeseries.PanelBuilder {
	return series("Cache Writes", "Response cache writes by result", ThirdWidth).
		WithTarget(PromQuery(`sum by (result) (rate(trendyol_cache_writes_total[5m]))`, "{{result}}", "A")).
		Unit("ops")
}

// ThrottleWait returns percentiles of time spent in the rate limiter.
func ThrottleWait() *timeseries.PanelBuilder {
	return quantiles(
		series("Throttle Wait", "Time requests waited for a rate limiter slot", ThirdWidth),
		"trendyol_throttle_wait_seconds", "",
	).Unit("s")
}
