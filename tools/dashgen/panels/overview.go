package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/gauge"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

// WarmerUp returns a stat panel showing whether the warmer daemon is being
// scraped.
func WarmerUp() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Warmer Up").
		Description("Scrape status of the cache warmer daemon (1 = up)").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`up{job="`+Job+`"}`, "", "A")).
		Thresholds(ThresholdsRedGreen(1)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		TextMode(common.BigValueTextModeValue)
}

// SuccessRatio returns a stat panel with the share of logical requests
// answered from the API or the cache.
func SuccessRatio() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Success %").
		Description("Logical requests ending in success or a cache hit").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`trendyol:requests_success:ratio5m * 100`, "", "A")).
		Unit("percent").
		Thresholds(ThresholdsRedGreen(95)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// CacheHitGauge returns a gauge with the response cache hit ratio.
func CacheHitGauge() *gauge.PanelBuilder {
	return gauge.NewPanelBuilder().
		Title("Cache Hit %").
		Description("Response cache lookups that returned a stored body").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`trendyol:cache_hit:ratio5m * 100`, "", "A")).
		Unit("percent").
		Min(0).
		Max(100).
		Thresholds(ThresholdsRedGreen(50)).
		ColorScheme(ColorSchemeThresholds())
}

// LastWarmAge returns a stat panel with the time since the warmer last
// finished a run.
func LastWarmAge() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Last Warm").
		Description("Seconds since the last completed cache warm-up").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`time() - trendyol_warmer_last_run_timestamp`, "", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenYellowRed(3600, 7200)).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}
