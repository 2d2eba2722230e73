package trendyol

import (
	"context"
	"fmt"
)

const questionsPath = "/suppliers/%s/questions"

// QuestionService wraps customer question endpoints.
type QuestionService struct{ service }

// List returns a page of questions. The items are under "content".
func (s *QuestionService) List(ctx context.Context, f Filter) (*Page, error) {
	raw, err := s.req.Get(ctx, s.supplierPath(questionsPath), s.listQuery(f, nil))
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	return FormatPaginated(raw, "content"), nil
}

// Get returns a single question.
func (s *QuestionService) Get(ctx context.Context, id string) (Result, error) {
	raw, err := s.req.Get(ctx, s.supplierPath(questionsPath+"/%s", id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting question %s: %w", id, err)
	}
	return FormatSingle(raw), nil
}

// Answer replies to a question.
func (s *QuestionService) Answer(ctx context.Context, id, text string) (Result, error) {
	raw, err := s.req.Post(ctx, s.supplierPath(questionsPath+"/%s/answers", id), map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("answering question %s: %w", id, err)
	}
	return FormatSingle(raw), nil
}

// Escalate hands a question over to marketplace support.
func (s *QuestionService) Escalate(ctx context.Context, id, reason string) (Result, error) {
	raw, err := s.req.Post(ctx, s.supplierPath(questionsPath+"/%s/escalate", id), map[string]string{"reason": reason})
	if err != nil {
		return nil, fmt.Errorf("escalating question %s: %w", id, err)
	}
	return FormatSingle(raw), nil
}
