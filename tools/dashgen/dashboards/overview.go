// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/trendyol-sp/tools/dashgen/panels"
)

// UID is the stable dashboard identifier used by provisioning.
const UID = "trendyol-overview"

// BuildOverview constructs the client overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Trendyol Client Overview").
		Uid(UID).
		Tags([]string{"trendyol", "seller-api"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.WarmerUp()).
		WithPanel(panels.SuccessRatio()).
		WithPanel(panels.CacheHitGauge()).
		WithPanel(panels.LastWarmAge()))

	b.WithRow(dashboard.NewRowBuilder("Requests").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.RequestLatency()).
		WithPanel(panels.FailureRatio()).
		WithPanel(panels.AttemptsByStatus()).
		WithPanel(panels.RetryRate()))

	b.WithRow(dashboard.NewRowBuilder("Cache and Throttling").
		WithPanel(panels.CacheLookups()).
		WithPanel(panels.CacheWrites()).
		WithPanel(panels.ThrottleWait()))

	b.WithRow(dashboard.NewRowBuilder("Warmer").
		WithPanel(panels.WarmerRuns()).
		WithPanel(panels.WarmerFailures()))

	// Empty unless the sandbox is scraped by the same Prometheus.
	b.WithRow(dashboard.NewRowBuilder("Sandbox").
		WithPanel(panels.SandboxRequests()).
		WithPanel(panels.SandboxLatency()).
		WithPanel(panels.SandboxFaults()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
