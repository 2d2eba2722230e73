package trendyol_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/trendyol-sp/internal/trendyol"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Body   string
}

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (rec *recorder) last(t *testing.T) recordedRequest {
	t.Helper()
	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.NotEmpty(t, rec.requests)
	return rec.requests[len(rec.requests)-1]
}

func recordingServer(t *testing.T, response string) (*httptest.Server, *recorder) {
	t.Helper()

	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		q := map[string]string{}
		for k := range r.URL.Query() {
			q[k] = r.URL.Query().Get(k)
		}
		rec.mu.Lock()
		rec.requests = append(rec.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  q,
			Body:   string(b),
		})
		rec.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func ptr[T any](v T) *T { return &v }

func TestServices_Requests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		call       func(ctx context.Context, c *trendyol.Client) (any, error)
		wantMethod string
		wantPath   string
		wantQuery  map[string]string
		wantBody   string
	}{
		{
			name: "products list",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Products().List(ctx, trendyol.Filter{"approved": "true", "page": "2"})
			},
			wantMethod: http.MethodGet,
			wantPath:   "/suppliers/12345/products",
			wantQuery:  map[string]string{"supplierId": "12345", "approved": "true", "page": "2"},
		},
		{
			name: "products get",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Products().Get(ctx, "77")
			},
			wantMethod: http.MethodGet,
			wantPath:   "/suppliers/12345/products/77",
			wantQuery:  map[string]string{},
		},
		{
			name: "products create wraps items",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Products().Create(ctx, map[string]any{"barcode": "B1"})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/suppliers/12345/products",
			wantQuery:  map[string]string{},
			wantBody:   `{"items":[{"barcode":"B1"}]}`,
		},
		{
			name: "products batch update",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Products().UpdateBatch(ctx, []any{map[string]any{"barcode": "B1"}, map[string]any{"barcode": "B2"}})
			},
			wantMethod: http.MethodPut,
			wantPath:   "/suppliers/12345/products",
			wantQuery:  map[string]string{},
			wantBody:   `{"items":[{"barcode":"B1"},{"barcode":"B2"}]}`,
		},
		{
			name: "price and stock without list price",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Products().UpdatePriceAndStock(ctx, "B1", 5, 99.9, nil)
			},
			wantMethod: http.MethodPost,
			wantPath:   "/suppliers/12345/products/price-and-inventory",
			wantQuery:  map[string]string{},
			wantBody:   `{"items":[{"barcode":"B1","quantity":5,"salePrice":99.9}]}`,
		},
		{
			name: "price and stock with list price",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Products().UpdatePriceAndStock(ctx, "B1", 5, 99.9, ptr(120.0))
			},
			wantMethod: http.MethodPost,
			wantPath:   "/suppliers/12345/products/price-and-inventory",
			wantQuery:  map[string]string{},
			wantBody:   `{"items":[{"barcode":"B1","quantity":5,"salePrice":99.9,"listPrice":120}]}`,
		},
		{
			name: "products delete by barcode",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Products().Delete(ctx, "B 1")
			},
			wantMethod: http.MethodDelete,
			wantPath:   "/suppliers/12345/products",
			wantQuery:  map[string]string{"barcode": "B 1"},
		},
		{
			name: "orders list",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Orders().List(ctx, trendyol.Filter{"status": "Created"})
			},
			wantMethod: http.MethodGet,
			wantPath:   "/suppliers/12345/orders",
			wantQuery:  map[string]string{"supplierId": "12345", "status": "Created"},
		},
		{
			name: "orders shipment package",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Orders().GetShipmentPackage(ctx, "555")
			},
			wantMethod: http.MethodGet,
			wantPath:   "/suppliers/12345/orders/shipment-packages/555",
			wantQuery:  map[string]string{},
		},
		{
			name: "orders accept items",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Orders().AcceptItems(ctx, "555", map[string]any{"lines": []any{map[string]any{"lineId": 1, "quantity": 1}}, "status": "Picking"})
			},
			wantMethod: http.MethodPut,
			wantPath:   "/suppliers/12345/orders/shipment-packages/555",
			wantQuery:  map[string]string{},
			wantBody:   `{"lines":[{"lineId":1,"quantity":1}],"status":"Picking"}`,
		},
		{
			name: "orders cancel",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Orders().Cancel(ctx, "555", "out of stock")
			},
			wantMethod: http.MethodDelete,
			wantPath:   "/suppliers/12345/orders/shipment-packages/555",
			wantQuery:  map[string]string{},
			wantBody:   `{"reason":"out of stock"}`,
		},
		{
			name: "orders tracking number",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Orders().UpdateTrackingNumber(ctx, "555", "TRK1")
			},
			wantMethod: http.MethodPut,
			wantPath:   "/suppliers/12345/orders/shipment-packages/555/update-tracking-number",
			wantQuery:  map[string]string{},
			wantBody:   `{"trackingNumber":"TRK1"}`,
		},
		{
			name: "orders invoice link",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Orders().SendInvoiceLink(ctx, "555", "INV-1", "2025-03-01")
			},
			wantMethod: http.MethodPost,
			wantPath:   "/suppliers/12345/orders/shipment-packages/555/invoice-link",
			wantQuery:  map[string]string{},
			wantBody:   `{"invoiceNumber":"INV-1","invoiceDate":"2025-03-01"}`,
		},
		{
			name: "orders invoice file",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Orders().SendInvoiceFile(ctx, "555", "UERG")
			},
			wantMethod: http.MethodPost,
			wantPath:   "/suppliers/12345/orders/shipment-packages/555/invoice-file",
			wantQuery:  map[string]string{},
			wantBody:   `{"invoiceContent":"UERG"}`,
		},
		{
			name: "orders ship",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Orders().Ship(ctx, map[string]any{"shipmentPackageId": 555})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/suppliers/12345/orders/update-tracking-number",
			wantQuery:  map[string]string{},
			wantBody:   `{"shipmentPackageId":555}`,
		},
		{
			name: "categories attributes",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Categories().Attributes(ctx, "411")
			},
			wantMethod: http.MethodGet,
			wantPath:   "/product-categories/411/attributes",
			wantQuery:  map[string]string{},
		},
		{
			name: "brands list defaults",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Brands().List(ctx, nil)
			},
			wantMethod: http.MethodGet,
			wantPath:   "/brands",
			wantQuery:  map[string]string{"page": "0", "size": "100"},
		},
		{
			name: "brands list override",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Brands().List(ctx, trendyol.Filter{"page": "3"})
			},
			wantMethod: http.MethodGet,
			wantPath:   "/brands",
			wantQuery:  map[string]string{"page": "3", "size": "100"},
		},
		{
			name: "brands by name",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Brands().SearchByName(ctx, "TRENDYOLMİLLA")
			},
			wantMethod: http.MethodGet,
			wantPath:   "/brands/by-name",
			wantQuery:  map[string]string{"name": "TRENDYOLMİLLA"},
		},
		{
			name: "claims reply without attachments",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Claims().Reply(ctx, "9", "we are on it")
			},
			wantMethod: http.MethodPost,
			wantPath:   "/suppliers/12345/claims/9/messages",
			wantQuery:  map[string]string{},
			wantBody:   `{"message":"we are on it"}`,
		},
		{
			name: "claims action with reason",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Claims().Action(ctx, "9", "reject", ptr("damaged by customer"))
			},
			wantMethod: http.MethodPost,
			wantPath:   "/suppliers/12345/claims/9/actions",
			wantQuery:  map[string]string{},
			wantBody:   `{"action":"reject","reason":"damaged by customer"}`,
		},
		{
			name: "claims note",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Claims().AddNote(ctx, "9", "called customer")
			},
			wantMethod: http.MethodPost,
			wantPath:   "/suppliers/12345/claims/9/notes",
			wantQuery:  map[string]string{},
			wantBody:   `{"text":"called customer"}`,
		},
		{
			name: "claims status without reason",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Claims().UpdateStatus(ctx, "9", "Accepted", nil)
			},
			wantMethod: http.MethodPut,
			wantPath:   "/suppliers/12345/claims/9/status",
			wantQuery:  map[string]string{},
			wantBody:   `{"status":"Accepted"}`,
		},
		{
			name: "claims document",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Claims().UploadDocument(ctx, "9", "aGVsbG8=", "photo.jpg")
			},
			wantMethod: http.MethodPost,
			wantPath:   "/suppliers/12345/claims/9/documents",
			wantQuery:  map[string]string{},
			wantBody:   `{"fileContent":"aGVsbG8=","fileName":"photo.jpg"}`,
		},
		{
			name: "returns rejected carries reason",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Returns().UpdateStatus(ctx, "4", "REJECTED", "used item")
			},
			wantMethod: http.MethodPut,
			wantPath:   "/suppliers/12345/returns/4",
			wantQuery:  map[string]string{},
			wantBody:   `{"status":"REJECTED","reason":"used item"}`,
		},
		{
			name: "returns accepted drops reason",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Returns().UpdateStatus(ctx, "4", "ACCEPTED", "ignored")
			},
			wantMethod: http.MethodPut,
			wantPath:   "/suppliers/12345/returns/4",
			wantQuery:  map[string]string{},
			wantBody:   `{"status":"ACCEPTED"}`,
		},
		{
			name: "returns tracking number",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Returns().UpdateTrackingNumber(ctx, "4", "RT-1")
			},
			wantMethod: http.MethodPut,
			wantPath:   "/suppliers/12345/returns/4/tracking-number",
			wantQuery:  map[string]string{},
			wantBody:   `{"trackingNumber":"RT-1"}`,
		},
		{
			name: "questions answer",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Questions().Answer(ctx, "3", "Yes, cotton.")
			},
			wantMethod: http.MethodPost,
			wantPath:   "/suppliers/12345/questions/3/answers",
			wantQuery:  map[string]string{},
			wantBody:   `{"text":"Yes, cotton."}`,
		},
		{
			name: "questions escalate",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Questions().Escalate(ctx, "3", "abusive")
			},
			wantMethod: http.MethodPost,
			wantPath:   "/suppliers/12345/questions/3/escalate",
			wantQuery:  map[string]string{},
			wantBody:   `{"reason":"abusive"}`,
		},
		{
			name: "shipment providers",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.ShipmentProviders().List(ctx)
			},
			wantMethod: http.MethodGet,
			wantPath:   "/shipment-providers",
			wantQuery:  map[string]string{},
		},
		{
			name: "shipment supplier accounts",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.ShipmentProviders().SupplierAccounts(ctx)
			},
			wantMethod: http.MethodGet,
			wantPath:   "/suppliers/12345/shipment-providers",
			wantQuery:  map[string]string{},
		},
		{
			name: "shipment outbounds",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.ShipmentProviders().Outbounds(ctx, nil)
			},
			wantMethod: http.MethodGet,
			wantPath:   "/suppliers/12345/shipment-outbounds",
			wantQuery:  map[string]string{"supplierId": "12345"},
		},
		{
			name: "shipment create outbound",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.ShipmentProviders().CreateOutbound(ctx, map[string]any{"warehouseId": 2})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/suppliers/12345/shipment-outbounds",
			wantQuery:  map[string]string{},
			wantBody:   `{"warehouseId":2}`,
		},
		{
			name: "delivery options",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.ShipmentProviders().DeliveryOptions(ctx)
			},
			wantMethod: http.MethodGet,
			wantPath:   "/suppliers/12345/delivery-options",
			wantQuery:  map[string]string{},
		},
		{
			name: "shipping label",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.ShipmentProviders().ShippingLabel(ctx, "555")
			},
			wantMethod: http.MethodGet,
			wantPath:   "/suppliers/12345/orders/shipment-packages/555/shipping-label",
			wantQuery:  map[string]string{},
		},
		{
			name: "bulk shipping labels",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.ShipmentProviders().BulkShippingLabels(ctx, []string{"1", "2"})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/suppliers/12345/orders/shipment-packages/shipping-labels",
			wantQuery:  map[string]string{},
			wantBody:   `{"shipmentPackageIds":["1","2"]}`,
		},
		{
			name: "addresses update",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Addresses().Update(ctx, "8", map[string]any{"city": "İstanbul"})
			},
			wantMethod: http.MethodPut,
			wantPath:   "/suppliers/12345/addresses/8",
			wantQuery:  map[string]string{},
			wantBody:   `{"city":"İstanbul"}`,
		},
		{
			name: "addresses delete",
			call: func(ctx context.Context, c *trendyol.Client) (any, error) {
				return c.Addresses().Delete(ctx, "8")
			},
			wantMethod: http.MethodDelete,
			wantPath:   "/suppliers/12345/addresses/8",
			wantQuery:  map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, rec := recordingServer(t, `{}`)
			c, _ := newTestClient(t, testConfig(srv.URL))

			_, err := tt.call(context.Background(), c)
			require.NoError(t, err)

			got := rec.last(t)
			assert.Equal(t, tt.wantMethod, got.Method)
			assert.Equal(t, tt.wantPath, got.Path)
			assert.Equal(t, tt.wantQuery, got.Query)
			if tt.wantBody == "" {
				assert.Empty(t, got.Body)
			} else {
				assert.JSONEq(t, tt.wantBody, got.Body)
			}
		})
	}
}

func TestServices_Formatting(t *testing.T) {
	t.Parallel()

	srv, _ := recordingServer(t, `{"totalElements":40,"totalPages":4,"page":1,"size":10,"content":[{"id":1}]}`)
	c, _ := newTestClient(t, testConfig(srv.URL))

	page, err := c.Orders().List(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 40, page.TotalCount)
	assert.Equal(t, 4, page.TotalPages)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Size)
	assert.Len(t, page.Items(), 1)
}

func TestServices_WrapErrors(t *testing.T) {
	t.Parallel()

	srv, _ := countingServer(t, jsonResponse(http.StatusNotFound, `{"errors":[{"message":"product not found"}]}`))
	c, _ := newTestClient(t, testConfig(srv.URL))

	_, err := c.Products().Get(context.Background(), "404")
	require.Error(t, err)
	assert.ErrorIs(t, err, trendyol.ErrValidation)
	assert.Equal(t, http.StatusNotFound, trendyol.StatusCode(err))
	assert.Contains(t, err.Error(), "getting product 404")
	assert.Contains(t, err.Error(), "product not found")
}
