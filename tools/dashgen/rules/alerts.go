package rules

// AlertRules returns a PrometheusRule CR with the operational alerts for the
// client and its cache warmer.
func AlertRules() PrometheusRule {
	return newRule("trendyol-alerts", RuleGroup{
		Name: "trendyol-alerts",
		Rules: []Rule{
			alert("TrendyolWarmerDown", `absent(up{job="trendyol-warmer"} == 1)`, "2m", "critical",
				"Cache warmer is down",
				"The trendyol-warmer scrape target has been missing or down for more than 2 minutes."),
			alert("TrendyolHighFailureRate", `trendyol:requests_failed:rate5m / trendyol:requests:rate5m > 0.05`, "5m", "warning",
				"High seller API failure rate",
				"More than 5% of logical requests ended in an error over the last 5 minutes."),
			alert("TrendyolRetriesExhausted", `sum(increase(trendyol_requests_total{outcome="retry_exhausted"}[10m])) > 0`, "0m", "warning",
				"Requests exhausted their retries",
				"At least one request kept failing with a transient error until the retry budget ran out."),
			alert("TrendyolAuthRejected", `sum(increase(trendyol_attempts_total{status=~"401|403"}[5m])) > 0`, "0m", "critical",
				"Seller API rejected the credentials",
				"The API answered 401 or 403. Check the supplier ID, API key and secret."),
			alert("TrendyolThrottleSaturated", `trendyol:throttle_wait:p95_5m > 1`, "10m", "warning",
				"Rate limiter is saturated",
				"p95 rate limiter wait has been above 1s for 10 minutes. Callers are issuing more than the configured requests per second."),
			alert("TrendyolWarmerFailing", `sum(increase(trendyol_warmer_runs_total{result="failure"}[1h])) > 0`, "0m", "warning",
				"Cache warm-up runs are failing",
				"At least one warm-up run in the last hour failed to refresh a target."),
			alert("TrendyolWarmerStale", `time() - trendyol_warmer_last_run_timestamp > 7200`, "10m", "warning",
				"Cache has not been warmed recently",
				"No warm-up run has completed in the last 2 hours."),
		},
	})
}

func alert(name, expr, forDur, severity, summary, description string) Rule {
	return Rule{
		Alert:  name,
		Expr:   expr,
		For:    forDur,
		Labels: map[string]string{"severity": severity},
		Annotations: map[string]string{
			"summary":     summary,
			"description": description,
		},
	}
}
