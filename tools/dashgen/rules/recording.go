package rules

// failedOutcomes matches the request outcomes that surface an error to the
// caller.
const failedOutcomes = `outcome=~"validation_error|retry_exhausted|transport_error"`

// RecordingRules returns a PrometheusRule CR with the pre-computed rates and
// ratios the dashboard and alerts read.
func RecordingRules() PrometheusRule {
	return newRule("trendyol-recording-rules", RuleGroup{
		Name: "trendyol-recording",
		Rules: []Rule{
			{
				Record: "trendyol:requests:rate5m",
				Expr:   `sum(rate(trendyol_requests_total[5m]))`,
			},
			{
				Record: "trendyol:requests_failed:rate5m",
				Expr:   `sum(rate(trendyol_requests_total{` + failedOutcomes + `}[5m]))`,
			},
			{
				Record: "trendyol:requests_success:ratio5m",
				Expr:   `sum(rate(trendyol_requests_total{outcome=~"success|cache_hit"}[5m])) / sum(rate(trendyol_requests_total[5m]))`,
			},
			{
				Record: "trendyol:retries:rate5m",
				Expr:   `sum by (method) (rate(trendyol_retries_total[5m]))`,
			},
			{
				Record: "trendyol:cache_hit:ratio5m",
				Expr:   `sum(rate(trendyol_cache_lookups_total{result="hit"}[5m])) / sum(rate(trendyol_cache_lookups_total[5m]))`,
			},
			{
				Record: "trendyol:throttle_wait:p95_5m",
				Expr:   `histogram_quantile(0.95, sum by (le) (rate(trendyol_throttle_wait_seconds_bucket[5m])))`,
			},
		},
	})
}
