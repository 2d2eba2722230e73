package trendyol

import (
	"context"
	"fmt"
	"net/url"
)

const productsPath = "/suppliers/%s/products"

// ProductService wraps the product catalogue endpoints.
type ProductService struct{ service }

// PriceStockItem is one row of a price and inventory update.
type PriceStockItem struct {
	Barcode   string   `json:"barcode"`
	Quantity  int      `json:"quantity"`
	SalePrice float64  `json:"salePrice"`
	ListPrice *float64 `json:"listPrice,omitempty"`
}

type itemsPayload struct {
	Items any `json:"items"`
}

// List returns a page of products. The items are under "content".
func (s *ProductService) List(ctx context.Context, f Filter) (*Page, error) {
	raw, err := s.req.Get(ctx, s.supplierPath(productsPath), s.listQuery(f, nil))
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return FormatPaginated(raw, "content"), nil
}

// Get returns a single product.
func (s *ProductService) Get(ctx context.Context, id string) (Result, error) {
	raw, err := s.req.Get(ctx, s.supplierPath(productsPath+"/%s", id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting product %s: %w", id, err)
	}
	return FormatSingle(raw), nil
}

// Create submits one product.
func (s *ProductService) Create(ctx context.Context, product any) (Result, error) {
	return s.CreateBatch(ctx, []any{product})
}

// CreateBatch submits several products in one request.
func (s *ProductService) CreateBatch(ctx context.Context, products []any) (Result, error) {
	raw, err := s.req.Post(ctx, s.supplierPath(productsPath), itemsPayload{Items: products})
	if err != nil {
		return nil, fmt.Errorf("creating products: %w", err)
	}
	return FormatSingle(raw), nil
}

// Update updates one product.
func (s *ProductService) Update(ctx context.Context, product any) (Result, error) {
	return s.UpdateBatch(ctx, []any{product})
}

// UpdateBatch updates several products in one request.
func (s *ProductService) UpdateBatch(ctx context.Context, products []any) (Result, error) {
	raw, err := s.req.Put(ctx, s.supplierPath(productsPath), itemsPayload{Items: products})
	if err != nil {
		return nil, fmt.Errorf("updating products: %w", err)
	}
	return FormatSingle(raw), nil
}

// UpdatePriceAndStock sets quantity and sale price for one barcode.
// listPrice is sent only when non-nil.
func (s *ProductService) UpdatePriceAndStock(
	ctx context.Context,
	barcode string,
	quantity int,
	salePrice float64,
	listPrice *float64,
) (Result, error) {
	return s.UpdatePriceAndStockBatch(ctx, []PriceStockItem{{
		Barcode:   barcode,
		Quantity:  quantity,
		SalePrice: salePrice,
		ListPrice: listPrice,
	}})
}

// UpdatePriceAndStockBatch sends several price and inventory rows at once.
func (s *ProductService) UpdatePriceAndStockBatch(ctx context.Context, items []PriceStockItem) (Result, error) {
	raw, err := s.req.Post(ctx, s.supplierPath(productsPath+"/price-and-inventory"), itemsPayload{Items: items})
	if err != nil {
		return nil, fmt.Errorf("updating price and inventory: %w", err)
	}
	return FormatSingle(raw), nil
}

// Delete removes the product with the given barcode.
func (s *ProductService) Delete(ctx context.Context, barcode string) (Result, error) {
	raw, err := s.req.Delete(ctx, s.supplierPath(productsPath), nil, url.Values{"barcode": {barcode}})
	if err != nil {
		return nil, fmt.Errorf("deleting product %s: %w", barcode, err)
	}
	return FormatSingle(raw), nil
}
