package catalog

import (
	"context"

	errs "lipa/internal/errors"
	"lipa/internal/models"
	"lipa/internal/repositories"
)

// Service is the storefront read surface. It also backs the purchase path:
// the money movement engine resolves products through GetActiveProduct.
type Service interface {
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	GetActiveProduct(ctx context.Context, id uint) (*models.Product, error)
	ListProducts(ctx context.Context, onlyActive bool, limit, offset int) ([]models.Product, int64, error)
}

type service struct {
	repo repositories.ProductRepository
}

func NewService(repo repositories.ProductRepository) Service {
	return &service{repo: repo}
}

func (s *service) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// GetActiveProduct resolves a product for purchase. Retired or suspended
// entries fail with ErrProductInactive.
func (s *service) GetActiveProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, errs.ErrProductInactive
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, onlyActive bool, limit, offset int) ([]models.Product, int64, error) {
	return s.repo.List(ctx, onlyActive, limit, offset)
}
