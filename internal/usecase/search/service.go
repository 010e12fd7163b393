package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/storefront/internal/domain"
	domlesson "github.com/kailas-cloud/storefront/internal/domain/lesson"
)

// Service handles free-text lesson search.
type Service struct {
	repo Repository
}

// New creates a search service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search returns the lessons whose name or location contains term, or whose
// price or space rendered as a decimal string contains it. Matching is
// case-insensitive and literal. An empty term returns every lesson.
func (s *Service) Search(ctx context.Context, term string) ([]domain.Document, error) {
	docs, err := s.repo.Find(ctx, domlesson.SearchQuery(term))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, err)
	}
	return docs, nil
}
