package db

import (
	"context"
	"time"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// Store is the document store facade shared by all request handlers.
// It is created once, made ready before serving and closed on shutdown.
type Store interface {
	Pinger
	DocumentStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DocumentStore provides find/insert/update over named collections.
type DocumentStore interface {
	// Find returns every document in the collection matching q, in the store's natural order.
	Find(ctx context.Context, collection string, q filter.Query) ([]domain.Document, error)
	// InsertOne stores doc and returns the store-generated identifier.
	InsertOne(ctx context.Context, collection string, doc domain.Document) (string, error)
	// InsertMany stores docs and returns how many were written.
	InsertMany(ctx context.Context, collection string, docs []domain.Document) (int, error)
	// UpdateOne merges fields into the first document whose key field equals key.Value.
	// A missing document is reported through the result, not as an error.
	UpdateOne(ctx context.Context, collection string, key Key, fields domain.Document) (UpdateResult, error)
}

// Key addresses a document by an application field.
type Key struct {
	Field string
	Value any
}

// UpdateResult reports matched and modified document counts.
type UpdateResult struct {
	Matched  int64
	Modified int64
}
