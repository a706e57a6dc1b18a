package services

import (
	"context"
	"strings"
	"time"

	"golang-storefront/internal/models"

	"go.uber.org/zap"
)

const productListCacheKey = "catalog:products"

// ProductSource is the remote product API.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
}

// ProductCache is satisfied by *cache.RedisCache.
type ProductCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

type CatalogService struct {
	source ProductSource
	cache  ProductCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCatalogService returns a catalog reading through source. cache may be nil.
func NewCatalogService(source ProductSource, cache ProductCache, ttl time.Duration, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// List returns the products whose title or category contains search (case-insensitive)
// and whose category equals category. An empty or "all" category matches everything.
func (s *CatalogService) List(ctx context.Context, search, category string) ([]models.Product, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}

	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		matchesSearch := strings.Contains(strings.ToLower(p.Title), search) ||
			strings.Contains(strings.ToLower(p.Category), search)
		matchesCategory := category == "" || category == "all" || p.Category == category
		if matchesSearch && matchesCategory {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *CatalogService) Get(ctx context.Context, productID string) (*models.Product, error) {
	return s.source.GetProduct(ctx, productID)
}

// AddProductToCart looks the product up and adds quantity units of it to cart.
func (s *CatalogService) AddProductToCart(ctx context.Context, cart *CartService, productID string, quantity int) (*models.Product, error) {
	if productID == "" {
		return nil, ErrProductIDRequired
	}
	if quantity < 1 {
		return nil, ErrQuantityPositive
	}

	product, err := s.source.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := cart.AddToCart(ctx, *product, quantity); err != nil {
		return nil, err
	}
	return product, nil
}

// Invalidate drops the cached product list.
func (s *CatalogService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, productListCacheKey); err != nil {
		s.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}

func (s *CatalogService) products(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		var cached []models.Product
		if err := s.cache.Get(ctx, productListCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	products, err := s.source.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, productListCacheKey, products, s.ttl); err != nil {
			s.logger.Warn("failed to cache product list", zap.Error(err))
		}
	}
	return products, nil
}
