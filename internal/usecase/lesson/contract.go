package lesson

import (
	"context"

	"github.com/kailas-cloud/storefront/internal/domain"
	domlesson "github.com/kailas-cloud/storefront/internal/domain/lesson"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// Repository defines the storage contract for lessons.
type Repository interface {
	Find(ctx context.Context, q filter.Query) ([]domain.Document, error)
	Update(ctx context.Context, u domlesson.Update) (domlesson.UpdateResult, error)
	InsertMany(ctx context.Context, docs []domain.Document) (int, error)
}
