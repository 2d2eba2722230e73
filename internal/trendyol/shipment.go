package trendyol

import (
	"context"
	"fmt"
)

const (
	shipmentProvidersPath = "/shipment-providers"
	outboundsPath         = "/suppliers/%s/shipment-outbounds"
)

// ShipmentProviderService wraps carrier, outbound and label endpoints.
type ShipmentProviderService struct{ service }

// List returns every carrier the marketplace supports.
func (s *ShipmentProviderService) List(ctx context.Context) (Result, error) {
	raw, err := s.req.Get(ctx, shipmentProvidersPath, nil)
	if err != nil {
		return nil, fmt.Errorf("listing shipment providers: %w", err)
	}
	return FormatSingle(raw), nil
}

// SupplierAccounts returns the carrier accounts linked to the supplier.
func (s *ShipmentProviderService) SupplierAccounts(ctx context.Context) (Result, error) {
	raw, err := s.req.Get(ctx, s.supplierPath("/suppliers/%s/shipment-providers"), nil)
	if err != nil {
		return nil, fmt.Errorf("listing supplier shipment providers: %w", err)
	}
	return FormatSingle(raw), nil
}

// Outbounds returns a page of shipment outbounds, under "content".
func (s *ShipmentProviderService) Outbounds(ctx context.Context, f Filter) (*Page, error) {
	raw, err := s.req.Get(ctx, s.supplierPath(outboundsPath), s.listQuery(f, nil))
	if err != nil {
		return nil, fmt.Errorf("listing shipment outbounds: %w", err)
	}
	return FormatPaginated(raw, "content"), nil
}

// Outbound returns a single shipment outbound.
func (s *ShipmentProviderService) Outbound(ctx context.Context, id string) (Result, error) {
	raw, err := s.req.Get(ctx, s.supplierPath(outboundsPath+"/%s", id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting shipment outbound %s: %w", id, err)
	}
	return FormatSingle(raw), nil
}

// CreateOutbound registers a new shipment outbound.
func (s *ShipmentProviderService) CreateOutbound(ctx context.Context, data any) (Result, error) {
	raw, err := s.req.Post(ctx, s.supplierPath(outboundsPath), data)
	if err != nil {
		return nil, fmt.Errorf("creating shipment outbound: %w", err)
	}
	return FormatSingle(raw), nil
}

// DeliveryOptions returns the supplier's delivery options.
func (s *ShipmentProviderService) DeliveryOptions(ctx context.Context) (Result, error) {
	raw, err := s.req.Get(ctx, s.supplierPath("/suppliers/%s/delivery-options"), nil)
	if err != nil {
		return nil, fmt.Errorf("getting delivery options: %w", err)
	}
	return FormatSingle(raw), nil
}

// ShippingLabel returns the label of one shipment package.
func (s *ShipmentProviderService) ShippingLabel(ctx context.Context, packageID string) (Result, error) {
	raw, err := s.req.Get(ctx, s.supplierPath(packagesPath+"/shipping-label", packageID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting shipping label of %s: %w", packageID, err)
	}
	return FormatSingle(raw), nil
}

// BulkShippingLabels requests labels for several packages at once.
func (s *ShipmentProviderService) BulkShippingLabels(ctx context.Context, packageIDs []string) (Result, error) {
	raw, err := s.req.Post(ctx,
		s.supplierPath(ordersPath+"/shipment-packages/shipping-labels"),
		map[string][]string{"shipmentPackageIds": packageIDs},
	)
	if err != nil {
		return nil, fmt.Errorf("requesting bulk shipping labels: %w", err)
	}
	return FormatSingle(raw), nil
}
