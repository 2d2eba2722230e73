package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// SandboxRequests returns sandbox requests per second by route and status.
func SandboxRequests() *timeseries.PanelBuilder {
	return series("Sandbox Requests", "Requests served by the sandbox API by route and status", ThirdWidth).
		WithTarget(PromQuery(
			`sum by (path, status) (rate(trendyol_sandbox_http_requests_total[5m]))`,
			"{{path}} {{status}}", "A",
		)).
		Unit("reqps")
}

// SandboxLatency returns sandbox latency percentiles by route.
func SandboxLatency() *timeseries.PanelBuilder {
	return quantiles(
		series("Sandbox Latency", "Sandbox handler duration by route, injected latency included", ThirdWidth),
		"trendyol_sandbox_http_request_duration_seconds", "path",
	).Unit("s")
}

// SandboxFaults returns injected faults by status.
func SandboxFaults() *timeseries.PanelBuilder {
	return series("Injected Faults", "Queued faults served by the sandbox", ThirdWidth).
		WithTarget(PromQuery(
			`sum by (status) (increase(trendyol_sandbox_injected_faults_total[5m]))`,
			"{{status}}", "A",
		))
}
