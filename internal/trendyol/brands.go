package trendyol

import (
	"context"
	"fmt"
	"net/url"
)

const brandsPath = "/brands"

var brandDefaults = Filter{"page": "0", "size": "100"}

// BrandService wraps the brand directory.
type BrandService struct{ service }

// List returns a page of brands, 100 per page unless f says otherwise.
func (s *BrandService) List(ctx context.Context, f Filter) (*Page, error) {
	raw, err := s.req.Get(ctx, brandsPath, plainQuery(f, brandDefaults))
	if err != nil {
		return nil, fmt.Errorf("listing brands: %w", err)
	}
	return FormatPaginated(raw, "brands"), nil
}

// SearchByName looks brands up by exact name.
func (s *BrandService) SearchByName(ctx context.Context, name string) (Result, error) {
	raw, err := s.req.Get(ctx, brandsPath+"/by-name", url.Values{"name": {name}})
	if err != nil {
		return nil, fmt.Errorf("searching brands by name %q: %w", name, err)
	}
	return FormatSingle(raw), nil
}
