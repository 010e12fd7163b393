package lesson

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/storefront/internal/domain"
	domlesson "github.com/kailas-cloud/storefront/internal/domain/lesson"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// Service handles catalog listing, partial updates and seeding.
type Service struct {
	repo Repository
}

// New creates a lesson service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every lesson in the store's natural order.
func (s *Service) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.repo.Find(ctx, filter.All())
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return docs, nil
}

// Update applies a partial merge described by payload to the lesson with the payload's id.
// A payload addressing no lesson succeeds with Matched == 0.
func (s *Service) Update(ctx context.Context, payload domain.Document) (domlesson.UpdateResult, error) {
	u, err := domlesson.ParseUpdate(payload)
	if err != nil {
		return domlesson.UpdateResult{}, fmt.Errorf("parse update: %w", err)
	}

	res, err := s.repo.Update(ctx, u)
	if err != nil {
		return domlesson.UpdateResult{}, fmt.Errorf("update lesson %d: %w", u.ID(), err)
	}
	return res, nil
}

// Seed inserts lessons created out of band. Every lesson must carry an integral id
// that is unique within the batch and not already stored.
func (s *Service) Seed(ctx context.Context, docs []domain.Document) (int, error) {
	existing, err := s.repo.Find(ctx, filter.All())
	if err != nil {
		return 0, fmt.Errorf("load existing lessons: %w", err)
	}

	seen := make(map[int64]struct{}, len(existing)+len(docs))
	for _, doc := range existing {
		if id, ok := domain.Integer(doc[domlesson.FieldID]); ok {
			seen[id] = struct{}{}
		}
	}

	prepared := make([]domain.Document, 0, len(docs))
	for i, doc := range docs {
		if err := domlesson.ValidateSeed(doc); err != nil {
			return 0, fmt.Errorf("lesson %d: %w", i, err)
		}
		id, _ := domain.Integer(doc[domlesson.FieldID])
		if _, dup := seen[id]; dup {
			return 0, fmt.Errorf("lesson %d: %w: duplicate %s %d", i, domain.ErrInvalidPayload, domlesson.FieldID, id)
		}
		seen[id] = struct{}{}
		prepared = append(prepared, doc.Without(domain.FieldStoreID))
	}

	n, err := s.repo.InsertMany(ctx, prepared)
	if err != nil {
		return 0, fmt.Errorf("seed lessons: %w", err)
	}
	return n, nil
}
