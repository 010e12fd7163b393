package search

import (
	"context"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// Repository defines the storage contract for lesson search.
type Repository interface {
	Find(ctx context.Context, q filter.Query) ([]domain.Document, error)
}
