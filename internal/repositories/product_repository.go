package repositories

import (
	"context"
	"errors"
	"fmt"

	errs "lipa/internal/errors"
	"lipa/internal/models"
	"lipa/internal/repositories/cache"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProductRepository is the catalog persistence surface. The catalog is
// written by the seed command; the API only reads it.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	List(ctx context.Context, onlyActive bool, limit, offset int) ([]models.Product, int64, error)
}

type productRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewProductRepository(db *gorm.DB, cacheService *cache.CacheService) ProductRepository {
	return &productRepository{db: db, cache: cacheService}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return fmt.Errorf("%w: create product: %v", errs.ErrStorage, err)
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	if r.cache != nil {
		if product, err := r.cache.GetProduct(ctx, id); err == nil {
			return product, nil
		}
	}

	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: get product %d: %v", errs.ErrStorage, id, err)
	}

	if r.cache != nil {
		if err := r.cache.CacheProduct(ctx, &product); err != nil {
			logrus.WithError(err).WithField("product_id", id).Warn("failed to cache product")
		}
	}
	return &product, nil
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: get product by sku: %v", errs.ErrStorage, err)
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, onlyActive bool, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: count products: %v", errs.ErrStorage, err)
	}
	if err := query.Limit(limit).Offset(offset).Order("id").Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: list products: %v", errs.ErrStorage, err)
	}
	return products, total, nil
}

