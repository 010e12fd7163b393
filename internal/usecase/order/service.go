package order

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/storefront/internal/domain"
	domorder "github.com/kailas-cloud/storefront/internal/domain/order"
)

// Service handles order listing and creation.
type Service struct {
	repo Repository
}

// New creates an order service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every order.
func (s *Service) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return docs, nil
}

// Create stores payload as a new order and returns the generated identifier.
func (s *Service) Create(ctx context.Context, payload domain.Document) (string, error) {
	id, err := s.repo.Insert(ctx, domorder.New(payload))
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	return id, nil
}
