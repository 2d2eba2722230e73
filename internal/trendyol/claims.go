package trendyol

import (
	"context"
	"fmt"
)

const claimsPath = "/suppliers/%s/claims"

// ClaimService wraps customer claim endpoints.
type ClaimService struct{ service }

// List returns a page of claims. The items are under "content".
func (s *ClaimService) List(ctx context.Context, f Filter) (*Page, error) {
	raw, err := s.req.Get(ctx, s.supplierPath(claimsPath), s.listQuery(f, nil))
	if err != nil {
		return nil, fmt.Errorf("listing claims: %w", err)
	}
	return FormatPaginated(raw, "content"), nil
}

// Get returns a single claim.
func (s *ClaimService) Get(ctx context.Context, id string) (Result, error) {
	raw, err := s.req.Get(ctx, s.supplierPath(claimsPath+"/%s", id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting claim %s: %w", id, err)
	}
	return FormatSingle(raw), nil
}

// Messages returns the conversation on a claim, under "messages".
func (s *ClaimService) Messages(ctx context.Context, id string) (*Page, error) {
	raw, err := s.req.Get(ctx, s.supplierPath(claimsPath+"/%s/messages", id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting messages of claim %s: %w", id, err)
	}
	return FormatPaginated(raw, "messages"), nil
}

type claimReply struct {
	Message     string `json:"message"`
	Attachments []any  `json:"attachments,omitempty"`
}

// Reply posts a message on a claim. Attachments are omitted when empty.
func (s *ClaimService) Reply(ctx context.Context, id, message string, attachments ...any) (Result, error) {
	raw, err := s.req.Post(ctx,
		s.supplierPath(claimsPath+"/%s/messages", id),
		claimReply{Message: message, Attachments: attachments},
	)
	if err != nil {
		return nil, fmt.Errorf("replying to claim %s: %w", id, err)
	}
	return FormatSingle(raw), nil
}

type claimAction struct {
	Action string  `json:"action"`
	Reason *string `json:"reason,omitempty"`
}

// Action performs an action such as accept or reject. reason is sent only
// when non-nil.
func (s *ClaimService) Action(ctx context.Context, id, action string, reason *string) (Result, error) {
	raw, err := s.req.Post(ctx,
		s.supplierPath(claimsPath+"/%s/actions", id),
		claimAction{Action: action, Reason: reason},
	)
	if err != nil {
		return nil, fmt.Errorf("performing %s on claim %s: %w", action, id, err)
	}
	return FormatSingle(raw), nil
}

// AddNote attaches an internal note to a claim.
func (s *ClaimService) AddNote(ctx context.Context, id, note string) (Result, error) {
	raw, err := s.req.Post(ctx, s.supplierPath(claimsPath+"/%s/notes", id), map[string]string{"text": note})
	if err != nil {
		return nil, fmt.Errorf("adding note to claim %s: %w", id, err)
	}
	return FormatSingle(raw), nil
}

type claimStatus struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"`
}

// UpdateStatus moves a claim to a new status.
func (s *ClaimService) UpdateStatus(ctx context.Context, id, status string, reason *string) (Result, error) {
	raw, err := s.req.Put(ctx,
		s.supplierPath(claimsPath+"/%s/status", id),
		claimStatus{Status: status, Reason: reason},
	)
	if err != nil {
		return nil, fmt.Errorf("updating status of claim %s: %w", id, err)
	}
	return FormatSingle(raw), nil
}

// UploadDocument attaches an encoded file to a claim.
func (s *ClaimService) UploadDocument(ctx context.Context, id, content, fileName string) (Result, error) {
	raw, err := s.req.Post(ctx,
		s.supplierPath(claimsPath+"/%s/documents", id),
		map[string]string{"fileContent": content, "fileName": fileName},
	)
	if err != nil {
		return nil, fmt.Errorf("uploading document to claim %s: %w", id, err)
	}
	return FormatSingle(raw), nil
}
