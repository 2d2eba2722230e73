package trendyol

import (
	"context"
	"fmt"
)

const addressesPath = "/suppliers/%s/addresses"

// AddressService wraps supplier address endpoints.
type AddressService struct{ service }

// List returns the supplier's addresses.
func (s *AddressService) List(ctx context.Context) (Result, error) {
	raw, err := s.req.Get(ctx, s.supplierPath(addressesPath), nil)
	if err != nil {
		return nil, fmt.Errorf("listing addresses: %w", err)
	}
	return FormatSingle(raw), nil
}

// Create adds an address.
func (s *AddressService) Create(ctx context.Context, address any) (Result, error) {
	raw, err := s.req.Post(ctx, s.supplierPath(addressesPath), address)
	if err != nil {
		return nil, fmt.Errorf("creating address: %w", err)
	}
	return FormatSingle(raw), nil
}

// Update replaces an address.
func (s *AddressService) Update(ctx context.Context, id string, address any) (Result, error) {
	raw, err := s.req.Put(ctx, s.supplierPath(addressesPath+"/%s", id), address)
	if err != nil {
		return nil, fmt.Errorf("updating address %s: %w", id, err)
	}
	return FormatSingle(raw), nil
}

// Delete removes an address.
func (s *AddressService) Delete(ctx context.Context, id string) (Result, error) {
	raw, err := s.req.Delete(ctx, s.supplierPath(addressesPath+"/%s", id), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("deleting address %s: %w", id, err)
	}
	return FormatSingle(raw), nil
}
