package trendyol

import (
	"context"
	"fmt"
	"net/url"
)

const categoriesPath = "/product-categories"

// CategoryService wraps the category tree. Categories are not scoped to a
// supplier and change rarely, which makes them good cache candidates.
type CategoryService struct{ service }

// List returns the category tree. The items are under "categories".
func (s *CategoryService) List(ctx context.Context) (*Page, error) {
	raw, err := s.req.Get(ctx, categoriesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return FormatPaginated(raw, "categories"), nil
}

// Get returns a single category.
func (s *CategoryService) Get(ctx context.Context, id string) (Result, error) {
	raw, err := s.req.Get(ctx, categoriesPath+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting category %s: %w", id, err)
	}
	return FormatSingle(raw), nil
}

// Attributes returns the attribute definitions of a category, under
// "categoryAttributes".
func (s *CategoryService) Attributes(ctx context.Context, id string) (*Page, error) {
	raw, err := s.req.Get(ctx, categoriesPath+"/"+url.PathEscape(id)+"/attributes", nil)
	if err != nil {
		return nil, fmt.Errorf("getting attributes of category %s: %w", id, err)
	}
	return FormatPaginated(raw, "categoryAttributes"), nil
}
