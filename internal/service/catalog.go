package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/apperr"
	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// ProductStore is the product persistence surface the catalog needs.
type ProductStore interface {
	GetProducts(ctx context.Context) ([]*entity.Product, error)
	GetProductByID(ctx context.Context, id int) (*entity.Product, error)
	CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id int) error
}

type CategoryStore interface {
	GetCategories(ctx context.Context) ([]*entity.Category, error)
	GetCategoryByID(ctx context.Context, id int) (*entity.Category, error)
	CreateCategory(ctx context.Context, category *entity.Category) (*entity.Category, error)
	UpdateCategory(ctx context.Context, category *entity.Category) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id int) error
}

// CatalogService serves products and categories, with a Redis cache in front
// of product-by-id reads.
type CatalogService struct {
	products   ProductStore
	categories CategoryStore
	rdb        *redis.Client
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(products ProductStore, categories CategoryStore, rdb *redis.Client) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		rdb:        rdb,
	}
}

func productCacheKey(id int) string {
	return fmt.Sprintf("product:%d", id)
}

func (s *CatalogService) GetProducts(ctx context.Context) ([]*entity.Product, error) {
	products, err := s.products.GetProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting products")
		return nil, err
	}
	return products, nil
}

// GetProductByID serves a product through the cache, falling back to the
// database on a miss.
func (s *CatalogService) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	if os.Getenv("ENV") != "test" && s.rdb != nil {
		cached, err := s.rdb.Get(ctx, productCacheKey(id)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msgf("Error getting product %d from cache", id)
		}
		if cached != "" {
			var product entity.Product
			if err := json.Unmarshal([]byte(cached), &product); err == nil {
				return &product, nil
			}
			logger.Error().Msgf("Dropping undecodable cache entry for product %d", id)
		}
	}

	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error getting product by ID %d", id)
		}
		return nil, err
	}

	s.cacheProduct(ctx, product, 0)
	return product, nil
}

// GetProductStock retrieves the current stock for a product.
func (s *CatalogService) GetProductStock(ctx context.Context, id int) (int, error) {
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return product.Quantity, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return nil, apperr.Invalid("product name is required")
	}
	product.Name = strings.TrimSpace(product.Name)
	if product.Quantity < 0 {
		product.Quantity = 0
	}

	created, err := s.products.CreateProduct(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating product")
		return nil, err
	}
	return created, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return nil, apperr.Invalid("product name is required")
	}
	product.Name = strings.TrimSpace(product.Name)
	if product.Quantity < 0 {
		product.Quantity = 0
	}

	updated, err := s.products.UpdateProduct(ctx, product)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error updating product %d", product.ID)
		}
		return nil, err
	}

	s.InvalidateProduct(ctx, product.ID)
	return updated, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error deleting product %d", id)
		}
		return err
	}

	s.InvalidateProduct(ctx, id)
	return nil
}

// InvalidateProduct drops a product's cache entry so the next read sees the
// current database row.
func (s *CatalogService) InvalidateProduct(ctx context.Context, id int) {
	if os.Getenv("ENV") == "test" || s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, productCacheKey(id)).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error invalidating cache for product %d", id)
	}
}

// PreWarmCacheAsync loads every product into the cache in the background.
func (s *CatalogService) PreWarmCacheAsync(ctx context.Context) error {
	products, err := s.products.GetProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting products")
		return err
	}

	for _, product := range products {
		go func(product entity.Product) {
			s.cacheProduct(context.Background(), &product, 1*time.Minute)
		}(*product)
	}

	return nil
}

func (s *CatalogService) cacheProduct(ctx context.Context, product *entity.Product, ttl time.Duration) {
	if os.Getenv("ENV") == "test" || s.rdb == nil {
		return
	}
	raw, err := json.Marshal(product)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling product %d", product.ID)
		return
	}
	if err := s.rdb.Set(ctx, productCacheKey(product.ID), raw, ttl).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error setting product %d in cache", product.ID)
	}
}

func (s *CatalogService) GetCategories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := s.categories.GetCategories(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting categories")
		return nil, err
	}
	return categories, nil
}

func (s *CatalogService) GetCategoryByID(ctx context.Context, id int) (*entity.Category, error) {
	return s.categories.GetCategoryByID(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return nil, apperr.Invalid("category name is required")
	}
	category.Name = strings.TrimSpace(category.Name)
	category.Description = strings.TrimSpace(category.Description)

	created, err := s.categories.CreateCategory(ctx, category)
	if err != nil {
		if !errors.Is(err, apperr.ErrConflict) {
			logger.Error().Err(err).Msg("Error creating category")
		}
		return nil, err
	}
	return created, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return nil, apperr.Invalid("category name is required")
	}
	category.Name = strings.TrimSpace(category.Name)
	category.Description = strings.TrimSpace(category.Description)

	updated, err := s.categories.UpdateCategory(ctx, category)
	if err != nil {
		if !errors.Is(err, apperr.ErrConflict) && !errors.Is(err, apperr.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error updating category %d", category.ID)
		}
		return nil, err
	}
	return updated, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id int) error {
	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			logger.Error().Err(err).Msgf("Error deleting category %d", id)
		}
		return err
	}
	return nil
}
