package lesson

import (
	"context"
	"testing"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	findFn       func(ctx context.Context, collection string, q filter.Query) ([]domain.Document, error)
	insertManyFn func(ctx context.Context, collection string, docs []domain.Document) (int, error)
	updateOneFn  func(
		ctx context.Context, collection string, key db.Key, fields domain.Document,
	) (db.UpdateResult, error)
}

func (m *mockStore) Find(ctx context.Context, collection string, q filter.Query) ([]domain.Document, error) {
	if m.findFn != nil {
		return m.findFn(ctx, collection, q)
	}
	return nil, nil
}

func (m *mockStore) InsertMany(ctx context.Context, collection string, docs []domain.Document) (int, error) {
	if m.insertManyFn != nil {
		return m.insertManyFn(ctx, collection, docs)
	}
	return len(docs), nil
}

func (m *mockStore) UpdateOne(
	ctx context.Context, collection string, key db.Key, fields domain.Document,
) (db.UpdateResult, error) {
	if m.updateOneFn != nil {
		return m.updateOneFn(ctx, collection, key, fields)
	}
	return db.UpdateResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, "lessons")
	return repo, ms
}
