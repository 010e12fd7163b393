package order

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// store is the consumer interface for orders (ISP).
type store interface {
	Find(ctx context.Context, collection string, q filter.Query) ([]domain.Document, error)
	InsertOne(ctx context.Context, collection string, doc domain.Document) (string, error)
}

// Repo implements usecase/order.Repository.
type Repo struct {
	store      store
	collection string
}

// New creates an order repository over the named collection.
func New(s store, collection string) *Repo {
	return &Repo{store: s, collection: collection}
}

// List returns every order. An empty result is a non-nil slice.
func (r *Repo) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := r.store.Find(ctx, r.collection, filter.All())
	if err != nil {
		return nil, fmt.Errorf("%w: find %s: %w", domain.ErrStoreUnavailable, r.collection, err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

// Insert stores doc and returns the store-generated identifier.
func (r *Repo) Insert(ctx context.Context, doc domain.Document) (string, error) {
	id, err := r.store.InsertOne(ctx, r.collection, doc)
	if err != nil {
		return "", fmt.Errorf("%w: insert %s: %w", domain.ErrStoreUnavailable, r.collection, err)
	}
	return id, nil
}
