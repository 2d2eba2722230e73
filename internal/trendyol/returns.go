package trendyol

import (
	"context"
	"fmt"
)

const (
	returnsPath = "/suppliers/%s/returns"

	// ReturnStatusRejected is the only status that carries a reason.
	ReturnStatusRejected = "REJECTED"
)

// ReturnService wraps return package endpoints.
type ReturnService struct{ service }

// List returns a page of return packages. The items are under "content".
func (s *ReturnService) List(ctx context.Context, f Filter) (*Page, error) {
	raw, err := s.req.Get(ctx, s.supplierPath(returnsPath), s.listQuery(f, nil))
	if err != nil {
		return nil, fmt.Errorf("listing returns: %w", err)
	}
	return FormatPaginated(raw, "content"), nil
}

// Get returns a single return package.
func (s *ReturnService) Get(ctx context.Context, id string) (Result, error) {
	raw, err := s.req.Get(ctx, s.supplierPath(returnsPath+"/%s", id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting return %s: %w", id, err)
	}
	return FormatSingle(raw), nil
}

type returnStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// UpdateStatus sets a return's status. reason is sent only for REJECTED.
func (s *ReturnService) UpdateStatus(ctx context.Context, id, status, reason string) (Result, error) {
	body := returnStatus{Status: status}
	if status == ReturnStatusRejected {
		body.Reason = reason
	}

	raw, err := s.req.Put(ctx, s.supplierPath(returnsPath+"/%s", id), body)
	if err != nil {
		return nil, fmt.Errorf("updating status of return %s: %w", id, err)
	}
	return FormatSingle(raw), nil
}

// UpdateTrackingNumber sets the tracking number of a return shipment.
func (s *ReturnService) UpdateTrackingNumber(ctx context.Context, id, trackingNumber string) (Result, error) {
	raw, err := s.req.Put(ctx,
		s.supplierPath(returnsPath+"/%s/tracking-number", id),
		map[string]string{"trackingNumber": trackingNumber},
	)
	if err != nil {
		return nil, fmt.Errorf("updating tracking number of return %s: %w", id, err)
	}
	return FormatSingle(raw), nil
}
