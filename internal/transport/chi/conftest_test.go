package chi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/db/memory"
	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
	lessonrepo "github.com/kailas-cloud/storefront/internal/repository/lesson"
	orderrepo "github.com/kailas-cloud/storefront/internal/repository/order"
	healthuc "github.com/kailas-cloud/storefront/internal/usecase/health"
	lessonuc "github.com/kailas-cloud/storefront/internal/usecase/lesson"
	orderuc "github.com/kailas-cloud/storefront/internal/usecase/order"
	searchuc "github.com/kailas-cloud/storefront/internal/usecase/search"
)

var errStoreDown = errors.New("server selection timeout")

// failingStore fails every operation, as an unreachable database would.
type failingStore struct {
	*memory.Store
}

func (failingStore) Ping(context.Context) error { return errStoreDown }

func (failingStore) Find(context.Context, string, filter.Query) ([]domain.Document, error) {
	return nil, &db.Error{Op: db.OpFind, Err: errStoreDown}
}

func (failingStore) InsertOne(context.Context, string, domain.Document) (string, error) {
	return "", &db.Error{Op: db.OpInsertOne, Err: errStoreDown}
}

func (failingStore) UpdateOne(context.Context, string, db.Key, domain.Document) (db.UpdateResult, error) {
	return db.UpdateResult{}, &db.Error{Op: db.OpUpdateOne, Err: errStoreDown}
}

func seedLessons() []domain.Document {
	return []domain.Document{
		{"id": int64(1), "LessonName": "Pottery Basics", "Location": "Hendon", "Price": int64(120), "Space": int64(5)},
		{"id": int64(2), "LessonName": "Chess", "Location": "Colindale", "Price": int64(80), "Space": int64(10)},
		{"id": int64(5), "LessonName": "Dr. Music", "Location": "Brent Cross", "Price": 95.5, "Space": int64(2)},
	}
}

// newTestHandler wires the full stack over store.
func newTestHandler(t *testing.T, store db.Store, imagesDir string) http.Handler {
	t.Helper()

	lessons := lessonrepo.New(store, "lessons")
	orders := orderrepo.New(store, "orders")

	srv := NewServer(
		lessonuc.New(lessons),
		orderuc.New(orders),
		searchuc.New(lessons),
		healthuc.New(store),
		zap.NewNop(),
	).WithImagesDir(imagesDir)

	return NewRouter(srv, zap.NewNop())
}

// newSeededHandler returns a handler over a memory store holding seedLessons.
func newSeededHandler(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.New()
	if _, err := store.InsertMany(context.Background(), "lessons", seedLessons()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return newTestHandler(t, store, ""), store
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
