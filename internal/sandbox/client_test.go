package sandbox_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/trendyol-sp/internal/sandbox"
	"github.com/donaldgifford/trendyol-sp/internal/trendyol"
)

// These tests drive the real client against the sandbox.

func TestClient_ReadsFixtures(t *testing.T) {
	t.Parallel()

	_, srv := newSandbox(t)
	c := newClient(t, srv.URL, nil)
	ctx := t.Context()

	products, err := c.Products().List(ctx, trendyol.Filter{"size": "2"})
	require.NoError(t, err)
	assert.Equal(t, 3, products.TotalCount)
	assert.Equal(t, 2, products.Size)
	assert.Equal(t, 2, products.TotalPages)
	assert.Len(t, products.Items(), 2)

	brands, err := c.Brands().List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, brands.TotalCount)

	categories, err := c.Categories().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, categories.TotalCount)

	attrs, err := c.Categories().Attributes(ctx, "411")
	require.NoError(t, err)
	assert.Equal(t, 2, attrs.TotalCount)

	providers, err := c.ShipmentProviders().List(ctx)
	require.NoError(t, err)
	assert.Len(t, providers, 3)

	order, err := c.Orders().Get(ctx, "10654411")
	require.NoError(t, err)
	assert.Equal(t, "Created", order.(map[string]any)["status"])

	matches, err := c.Brands().SearchByName(ctx, "kot")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestClient_RetriesThroughFaults(t *testing.T) {
	t.Parallel()

	sb, srv := newSandbox(t)
	c := newClient(t, srv.URL, nil)

	sb.Fail(http.StatusServiceUnavailable, http.StatusBadGateway)

	page, err := c.Orders().List(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)

	recorded := sb.Requests()
	require.Len(t, recorded, 3)
	for _, r := range recorded {
		assert.Equal(t, recorded[0].RequestID, r.RequestID, "one logical request keeps its ID across retries")
		assert.Equal(t, supplierID+" - SelfIntegration", r.Header.Get("User-Agent"))
	}
}

func TestClient_RetriesDroppedConnection(t *testing.T) {
	t.Parallel()

	sb, srv := newSandbox(t)
	c := newClient(t, srv.URL, nil)

	sb.Fail(sandbox.FaultDropConnection)

	_, err := c.ShipmentProviders().List(t.Context())
	require.NoError(t, err)
	assert.Len(t, sb.Requests(), 2)
}

func TestClient_RetryExhausted(t *testing.T) {
	t.Parallel()

	sb, srv := newSandbox(t)
	c := newClient(t, srv.URL, func(cfg *trendyol.Config) { cfg.RetryAttempts = 2 })

	sb.Fail(http.StatusServiceUnavailable, http.StatusServiceUnavailable, http.StatusServiceUnavailable)

	_, err := c.Claims().List(t.Context(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, trendyol.ErrRetryExhausted))
	assert.Equal(t, http.StatusServiceUnavailable, trendyol.StatusCode(err))
	assert.Contains(t, err.Error(), "API request failed after 3 attempts")
	assert.Len(t, sb.Requests(), 3)
}

func TestClient_TerminalErrors(t *testing.T) {
	t.Parallel()

	_, srv := newSandbox(t)

	tests := []struct {
		name     string
		client   func(*trendyol.Config)
		wantCode int
		wantMsg  string
	}{
		{
			name:     "bad credentials",
			client:   func(cfg *trendyol.Config) { cfg.APISecret = "wrong" },
			wantCode: http.StatusUnauthorized,
			wantMsg:  "Unauthorized",
		},
		{
			name:     "wrong supplier",
			client:   func(cfg *trendyol.Config) { cfg.SupplierID = "999" },
			wantCode: http.StatusForbidden,
			wantMsg:  "supplier does not match credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newClient(t, srv.URL, tt.client)
			_, err := c.Questions().List(t.Context(), nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, trendyol.ErrValidation))
			assert.Equal(t, tt.wantCode, trendyol.StatusCode(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestClient_ProductLifecycle(t *testing.T) {
	t.Parallel()

	sb, srv := newSandbox(t)
	c := newClient(t, srv.URL, func(cfg *trendyol.Config) { cfg.CacheEnabled = true })
	ctx := t.Context()

	before, err := c.Products().List(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 3, before.TotalCount)

	_, err = c.Products().Create(ctx, map[string]any{"barcode": "8680000000042", "title": "Keten Gomlek", "quantity": 10})
	require.NoError(t, err)

	// Writes leave cached reads alone.
	cached, err := c.Products().List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cached.TotalCount)

	fresh, err := c.Requester().Execute(ctx, &trendyol.Descriptor{
		Endpoint: "/suppliers/" + supplierID + "/products",
		Query:    map[string][]string{"supplierId": {supplierID}},
		Refresh:  true,
	})
	require.NoError(t, err)
	assert.InDelta(t, 4, fresh.(map[string]any)["totalElements"], 0)

	_, err = c.Products().UpdatePriceAndStock(ctx, "8680000000042", 7, 99.5, nil)
	require.NoError(t, err)

	got, err := c.Products().Get(ctx, "8680000000042")
	require.NoError(t, err)
	product := got.(map[string]any)
	assert.InDelta(t, 7, product["quantity"], 0)
	assert.InDelta(t, 99.5, product["salePrice"], 0)
	assert.Equal(t, "Keten Gomlek", product["title"])

	_, err = c.Products().Delete(ctx, "8680000000042")
	require.NoError(t, err)

	_, err = c.Products().Delete(ctx, "8680000000042")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, trendyol.StatusCode(err))

	var writes int
	for _, r := range sb.Requests() {
		if r.Method != http.MethodGet {
			writes++
		}
	}
	assert.Equal(t, 4, writes)
}
