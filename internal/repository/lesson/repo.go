package lesson

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/domain"
	domlesson "github.com/kailas-cloud/storefront/internal/domain/lesson"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// store is the consumer interface for lessons (ISP).
type store interface {
	Find(ctx context.Context, collection string, q filter.Query) ([]domain.Document, error)
	InsertMany(ctx context.Context, collection string, docs []domain.Document) (int, error)
	UpdateOne(ctx context.Context, collection string, key db.Key, fields domain.Document) (db.UpdateResult, error)
}

// Repo implements usecase/lesson.Repository and usecase/search.Repository.
type Repo struct {
	store      store
	collection string
}

// New creates a lesson repository over the named collection.
func New(s store, collection string) *Repo {
	return &Repo{store: s, collection: collection}
}

// Find returns the lessons matching q. An empty result is a non-nil slice.
func (r *Repo) Find(ctx context.Context, q filter.Query) ([]domain.Document, error) {
	docs, err := r.store.Find(ctx, r.collection, q)
	if err != nil {
		return nil, fmt.Errorf("%w: find %s: %w", domain.ErrStoreUnavailable, r.collection, err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

// Update merges u's fields into the lesson whose id equals u.ID().
func (r *Repo) Update(ctx context.Context, u domlesson.Update) (domlesson.UpdateResult, error) {
	key := db.Key{Field: domlesson.FieldID, Value: u.ID()}

	res, err := r.store.UpdateOne(ctx, r.collection, key, u.Fields())
	if err != nil {
		return domlesson.UpdateResult{}, fmt.Errorf(
			"%w: update %s id=%d: %w", domain.ErrStoreUnavailable, r.collection, u.ID(), err,
		)
	}
	return domlesson.UpdateResult{Matched: res.Matched, Modified: res.Modified}, nil
}

// InsertMany stores lessons and returns how many were written.
func (r *Repo) InsertMany(ctx context.Context, docs []domain.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	n, err := r.store.InsertMany(ctx, r.collection, docs)
	if err != nil {
		return 0, fmt.Errorf("%w: insert %s: %w", domain.ErrStoreUnavailable, r.collection, err)
	}
	return n, nil
}
