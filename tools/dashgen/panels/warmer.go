package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// WarmerRuns returns hourly warm-up runs by result.
func WarmerRuns() *timeseries.PanelBuilder {
	return series("Warm-up Runs", "Cache warm-up runs per hour by result", TSWidth).
		WithTarget(PromQuery(`sum by (result) (increase(trendyol_warmer_runs_total[1h]))`, "{{result}}", "A")).
		DrawStyle(common.GraphDrawStyleBars)
}

// WarmerFailures returns a stat panel counting failed runs in the last day.
func WarmerFailures() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Failed Warm-ups (24h)").
		Description("Warm-up runs where at least one target failed").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`sum(increase(trendyol_warmer_runs_total{result="failure"}[24h]))`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 3)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
