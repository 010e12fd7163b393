package order

import (
	"context"

	"github.com/kailas-cloud/storefront/internal/domain"
)

// Repository defines the storage contract for orders.
type Repository interface {
	List(ctx context.Context) ([]domain.Document, error)
	Insert(ctx context.Context, doc domain.Document) (string, error)
}
