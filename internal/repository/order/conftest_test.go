package order

import (
	"context"
	"testing"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	findFn      func(ctx context.Context, collection string, q filter.Query) ([]domain.Document, error)
	insertOneFn func(ctx context.Context, collection string, doc domain.Document) (string, error)
}

func (m *mockStore) Find(ctx context.Context, collection string, q filter.Query) ([]domain.Document, error) {
	if m.findFn != nil {
		return m.findFn(ctx, collection, q)
	}
	return nil, nil
}

func (m *mockStore) InsertOne(ctx context.Context, collection string, doc domain.Document) (string, error) {
	if m.insertOneFn != nil {
		return m.insertOneFn(ctx, collection, doc)
	}
	return "generated-id", nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, "orders")
	return repo, ms
}
