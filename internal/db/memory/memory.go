// Package memory implements an in-process document store.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store keeps collections in memory, in insertion order.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]domain.Document
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{collections: make(map[string][]domain.Document)}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// WaitForReady returns immediately.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// Find returns copies of the documents matching q.
func (s *Store) Find(_ context.Context, collection string, q filter.Query) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.collections[collection]
	out := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if q.Match(d) {
			out = append(out, d.Clone())
		}
	}
	return out, nil
}

// InsertOne stores a copy of doc under a new identifier.
func (s *Store) InsertOne(_ context.Context, collection string, doc domain.Document) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", &db.Error{Op: db.OpInsertOne, Err: fmt.Errorf("generate id: %w", err)}
	}

	stored := doc.Without(domain.FieldStoreID)
	stored[domain.FieldStoreID] = id.String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], stored)
	return id.String(), nil
}

// InsertMany stores copies of docs.
func (s *Store) InsertMany(ctx context.Context, collection string, docs []domain.Document) (int, error) {
	for i, d := range docs {
		if _, err := s.InsertOne(ctx, collection, d); err != nil {
			return i, err
		}
	}
	return len(docs), nil
}

// UpdateOne merges fields into the first document matching key.
func (s *Store) UpdateOne(
	_ context.Context, collection string, key db.Key, fields domain.Document,
) (db.UpdateResult, error) {
	if key.Field == "" {
		return db.UpdateResult{}, &db.Error{Op: db.OpUpdateOne, Err: db.ErrEmptyKeyField}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.collections[collection] {
		if !db.KeyMatches(d, key) {
			continue
		}
		modified := false
		for k, v := range fields {
			if k == domain.FieldStoreID {
				continue
			}
			if old, ok := d[k]; !ok || !reflect.DeepEqual(old, v) {
				modified = true
			}
			d[k] = domain.CloneValue(v)
		}
		res := db.UpdateResult{Matched: 1}
		if modified {
			res.Modified = 1
		}
		return res, nil
	}
	return db.UpdateResult{}, nil
}
