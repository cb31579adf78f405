package service

import (
	"context"
	"errors"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ProductStore is the full catalog persistence surface.
type ProductStore interface {
	ProductReader
	List(ctx context.Context, filter repository.ProductFilter) ([]*models.Product, int64, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProductCache is the read-through cache in front of product lookups.
// Cache failures are never fatal; the store is the source of truth.
type ProductCache interface {
	CacheProduct(ctx context.Context, product *models.Product) error
	GetCachedProduct(ctx context.Context, id string) (*models.Product, error)
	InvalidateProduct(ctx context.Context, id string) error
}

type CatalogService struct {
	products   ProductStore
	categories CategoryStore
	cache      ProductCache
	logger     *zap.Logger
}

func NewCatalogService(products ProductStore, categories CategoryStore, cache ProductCache, logger *zap.Logger) *CatalogService {
	return &CatalogService{products: products, categories: categories, cache: cache, logger: logger}
}

func (s *CatalogService) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	if s.cache != nil {
		if product, err := s.cache.GetCachedProduct(ctx, id.Hex()); err == nil {
			return product, nil
		}
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheProduct(ctx, product); err != nil {
			s.logger.Warn("failed to cache product", zap.String("product_id", id.Hex()), zap.Error(err))
		}
	}
	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*models.Product, int64, error) {
	return s.products.List(ctx, filter)
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	product.Slug = models.Slugify(product.Name)
	if product.Currency == "" {
		product.Currency = "USD"
	}
	product.IsActive = true

	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return ErrSKUTaken
		}
		return err
	}
	return nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, product *models.Product) error {
	product.Slug = models.Slugify(product.Name)

	if err := s.products.Update(ctx, product); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrProductNotFound
		case errors.Is(err, repository.ErrDuplicateKey):
			return ErrSKUTaken
		}
		return err
	}
	s.invalidate(ctx, product.ID)
	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id primitive.ObjectID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProduct(ctx, id.Hex()); err != nil {
		s.logger.Warn("failed to invalidate product cache", zap.String("product_id", id.Hex()), zap.Error(err))
	}
}

func (s *CatalogService) GetCategory(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, category *models.Category) error {
	category.Slug = models.Slugify(category.Name)
	category.IsActive = true
	if category.Level < 1 {
		category.Level = 1
	}

	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return ErrCategoryNameTaken
		}
		return err
	}
	return nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, category *models.Category) error {
	category.Slug = models.Slugify(category.Name)

	if err := s.categories.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrCategoryNotFound
		case errors.Is(err, repository.ErrDuplicateKey):
			return ErrCategoryNameTaken
		}
		return err
	}
	return nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
