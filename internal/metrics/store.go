package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// Store operation Prometheus metrics.
var (
	StoreOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "store_operations_total",
			Help:      "Total number of document store operations",
		},
		[]string{"collection", "op", "status"},
	)

	StoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "store_operation_duration_seconds",
			Help:      "Document store operation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"collection", "op"},
	)
)

var storeMetricsRegistered bool

// RegisterStoreMetrics registers Prometheus store metrics. Must be called once from main.
func RegisterStoreMetrics() {
	if storeMetricsRegistered {
		return
	}
	prometheus.MustRegister(StoreOperationsTotal)
	prometheus.MustRegister(StoreOperationDuration)
	storeMetricsRegistered = true
}

// InstrumentedStore wraps db.Store with operation metrics and error logging.
type InstrumentedStore struct {
	db.Store
	logger *zap.Logger
}

// Compile-time check: InstrumentedStore implements db.Store.
var _ db.Store = (*InstrumentedStore)(nil)

// NewInstrumentedStore wraps a store with observability.
func NewInstrumentedStore(inner db.Store, logger *zap.Logger) *InstrumentedStore {
	return &InstrumentedStore{Store: inner, logger: logger}
}

// Find delegates to the inner store and records the outcome.
func (s *InstrumentedStore) Find(
	ctx context.Context, collection string, q filter.Query,
) ([]domain.Document, error) {
	start := time.Now()
	docs, err := s.Store.Find(ctx, collection, q)
	s.observe(collection, db.OpFind, start, err)
	return docs, err //nolint:wrapcheck // decorator is transparent
}

// InsertOne delegates to the inner store and records the outcome.
func (s *InstrumentedStore) InsertOne(
	ctx context.Context, collection string, doc domain.Document,
) (string, error) {
	start := time.Now()
	id, err := s.Store.InsertOne(ctx, collection, doc)
	s.observe(collection, db.OpInsertOne, start, err)
	return id, err //nolint:wrapcheck // decorator is transparent
}

// InsertMany delegates to the inner store and records the outcome.
func (s *InstrumentedStore) InsertMany(
	ctx context.Context, collection string, docs []domain.Document,
) (int, error) {
	start := time.Now()
	n, err := s.Store.InsertMany(ctx, collection, docs)
	s.observe(collection, db.OpInsertMany, start, err)
	return n, err //nolint:wrapcheck // decorator is transparent
}

// UpdateOne delegates to the inner store and records the outcome.
func (s *InstrumentedStore) UpdateOne(
	ctx context.Context, collection string, key db.Key, fields domain.Document,
) (db.UpdateResult, error) {
	start := time.Now()
	res, err := s.Store.UpdateOne(ctx, collection, key, fields)
	s.observe(collection, db.OpUpdateOne, start, err)
	return res, err //nolint:wrapcheck // decorator is transparent
}

func (s *InstrumentedStore) observe(collection, op string, start time.Time, err error) {
	duration := time.Since(start)
	StoreOperationDuration.WithLabelValues(collection, op).Observe(duration.Seconds())

	status := "ok"
	if err != nil {
		status = "error"
		s.logger.Error("Store operation failed",
			zap.String("collection", collection),
			zap.String("op", op),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	}
	StoreOperationsTotal.WithLabelValues(collection, op, status).Inc()
}
