package trendyol

import (
	"context"
	"fmt"
)

const (
	ordersPath   = "/suppliers/%s/orders"
	packagesPath = ordersPath + "/shipment-packages/%s"
)

// OrderService wraps order and shipment package endpoints.
type OrderService struct{ service }

// List returns a page of orders. The items are under "content".
func (s *OrderService) List(ctx context.Context, f Filter) (*Page, error) {
	raw, err := s.req.Get(ctx, s.supplierPath(ordersPath), s.listQuery(f, nil))
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return FormatPaginated(raw, "content"), nil
}

// Get returns a single order.
func (s *OrderService) Get(ctx context.Context, id string) (Result, error) {
	raw, err := s.req.Get(ctx, s.supplierPath(ordersPath+"/%s", id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting order %s: %w", id, err)
	}
	return FormatSingle(raw), nil
}

// GetShipmentPackage returns one shipment package.
func (s *OrderService) GetShipmentPackage(ctx context.Context, packageID string) (Result, error) {
	raw, err := s.req.Get(ctx, s.supplierPath(packagesPath, packageID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting shipment package %s: %w", packageID, err)
	}
	return FormatSingle(raw), nil
}

// AcceptItems sends the package lines as-is.
func (s *OrderService) AcceptItems(ctx context.Context, packageID string, lines any) (Result, error) {
	raw, err := s.req.Put(ctx, s.supplierPath(packagesPath, packageID), lines)
	if err != nil {
		return nil, fmt.Errorf("accepting shipment package %s: %w", packageID, err)
	}
	return FormatSingle(raw), nil
}

// Cancel cancels a shipment package.
func (s *OrderService) Cancel(ctx context.Context, packageID, reason string) (Result, error) {
	raw, err := s.req.Delete(ctx, s.supplierPath(packagesPath, packageID), map[string]string{"reason": reason}, nil)
	if err != nil {
		return nil, fmt.Errorf("cancelling shipment package %s: %w", packageID, err)
	}
	return FormatSingle(raw), nil
}

// UpdateTrackingNumber sets the carrier tracking number of a package.
func (s *OrderService) UpdateTrackingNumber(ctx context.Context, packageID, trackingNumber string) (Result, error) {
	raw, err := s.req.Put(ctx,
		s.supplierPath(packagesPath+"/update-tracking-number", packageID),
		map[string]string{"trackingNumber": trackingNumber},
	)
	if err != nil {
		return nil, fmt.Errorf("updating tracking number of %s: %w", packageID, err)
	}
	return FormatSingle(raw), nil
}

// SendInvoiceLink attaches an invoice reference to a package.
func (s *OrderService) SendInvoiceLink(ctx context.Context, packageID, invoiceNumber, invoiceDate string) (Result, error) {
	raw, err := s.req.Post(ctx,
		s.supplierPath(packagesPath+"/invoice-link", packageID),
		map[string]string{"invoiceNumber": invoiceNumber, "invoiceDate": invoiceDate},
	)
	if err != nil {
		return nil, fmt.Errorf("sending invoice link for %s: %w", packageID, err)
	}
	return FormatSingle(raw), nil
}

// SendInvoiceFile uploads an encoded invoice document for a package.
func (s *OrderService) SendInvoiceFile(ctx context.Context, packageID, content string) (Result, error) {
	raw, err := s.req.Post(ctx,
		s.supplierPath(packagesPath+"/invoice-file", packageID),
		map[string]string{"invoiceContent": content},
	)
	if err != nil {
		return nil, fmt.Errorf("sending invoice file for %s: %w", packageID, err)
	}
	return FormatSingle(raw), nil
}

// Ship posts shipping data for one or more packages.
func (s *OrderService) Ship(ctx context.Context, data any) (Result, error) {
	raw, err := s.req.Post(ctx, s.supplierPath(ordersPath+"/update-tracking-number"), data)
	if err != nil {
		return nil, fmt.Errorf("shipping order items: %w", err)
	}
	return FormatSingle(raw), nil
}
