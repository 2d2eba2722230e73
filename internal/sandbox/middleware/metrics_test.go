package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/trendyol-sp/internal/metrics"
	mw "github.com/donaldgifford/trendyol-sp/internal/sandbox/middleware"
)

func TestMetricsMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		route      string
		target     string
		status     int
		wantStatus int
	}{
		{
			name:       "labels by route pattern",
			method:     http.MethodGet,
			route:      "/suppliers/:supplierId/products",
			target:     "/suppliers/777/products",
			status:     http.StatusOK,
			wantStatus: http.StatusOK,
		},
		{
			name:       "records injected failures",
			method:     http.MethodPost,
			route:      "/suppliers/:supplierId/products",
			target:     "/suppliers/777/products",
			status:     http.StatusBadGateway,
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.Use(mw.Metrics())
			e.Add(tt.method, tt.route, func(c echo.Context) error {
				return c.NoContent(tt.status)
			})

			req := httptest.NewRequest(tt.method, tt.target, http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)

			statusStr := strconv.Itoa(tt.wantStatus)

			counter, err := metrics.SandboxRequestsTotal.GetMetricWithLabelValues(tt.method, tt.route, statusStr)
			require.NoError(t, err)
			assert.Positive(t, testutil.ToFloat64(counter))

			observer, err := metrics.SandboxRequestDuration.GetMetricWithLabelValues(tt.method, tt.route, statusStr)
			require.NoError(t, err)
			hm := &io_prometheus_client.Metric{}
			require.NoError(t, observer.(prometheus.Metric).Write(hm))
			assert.Positive(t, hm.GetHistogram().GetSampleCount())
		})
	}
}

func TestMetricsMiddleware_SkipsHealthz(t *testing.T) {
	e := echo.New()
	e.Use(mw.Metrics())
	e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)

	counter, err := metrics.SandboxRequestsTotal.GetMetricWithLabelValues(http.MethodGet, "/healthz", "200")
	require.NoError(t, err)
	assert.Zero(t, testutil.ToFloat64(counter))
}
