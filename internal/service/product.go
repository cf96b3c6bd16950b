package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mavi-suporte/helpdesk-service/internal/model"
	"github.com/mavi-suporte/helpdesk-service/internal/store"
	"go.uber.org/zap"
)

// ProductService manages the spare-part inventory admins draw from when
// fulfilling tickets.
type ProductService struct {
	store  store.ProductStore
	logger *zap.Logger
}

func NewProductService(st store.ProductStore, logger *zap.Logger) *ProductService {
	return &ProductService{store: st, logger: logger}
}

// Register creates a product or, when the name is already known, adds
// quantity to its stock. A non-empty description replaces the stored one.
func (s *ProductService) Register(ctx context.Context, name, description string, quantity int) (*model.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: nome is required", ErrValidation)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantidade must be positive", ErrValidation)
	}
	p, err := s.store.UpsertProduct(ctx, name, strings.TrimSpace(description), quantity)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product registered",
		zap.String("name", p.Name), zap.Int("quantity", p.Quantity))
	return p, nil
}

// Consume takes quantity units (defaulting to 1) out of stock, failing when
// the product is unknown or the stock would go negative.
func (s *ProductService) Consume(ctx context.Context, name string, quantity int) (*model.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: nome is required", ErrValidation)
	}
	if quantity <= 0 {
		quantity = 1
	}
	return s.store.DecrementProduct(ctx, name, quantity)
}

// List returns the inventory ordered by product name.
func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	return s.store.ListProducts(ctx)
}
