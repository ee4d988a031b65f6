package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"ecocart/model"
	"ecocart/repository"
)

// CatalogService serves products and falls back to the built-in catalog
// whenever the store is empty or failing. Read errors never reach callers.
type CatalogService struct {
	products repository.ProductStore
	log      *zap.Logger
}

func NewCatalogService(products repository.ProductStore, log *zap.Logger) *CatalogService {
	return &CatalogService{products: products, log: log.Named("catalog")}
}

func (s *CatalogService) ListProducts(ctx context.Context) []model.Product {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		s.log.Warn("list products failed, serving fallback catalog", zap.Error(err))
		return model.FallbackProducts()
	}
	if len(products) == 0 {
		s.log.Info("no products in store, serving fallback catalog")
		return model.FallbackProducts()
	}
	return products
}

// GetProduct looks id up in the store, then in the fallback catalog.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*model.Product, bool) {
	if id == "" {
		return nil, false
	}

	p, err := s.products.GetProduct(ctx, id)
	if err == nil {
		return p, true
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("get product failed, trying fallback catalog", zap.String("product_id", id), zap.Error(err))
	}

	for _, fp := range model.FallbackProducts() {
		if fp.ID == id {
			return &fp, true
		}
	}
	s.log.Warn("product not found in store or fallback catalog", zap.String("product_id", id))
	return nil, false
}

// SeedProducts writes the fallback catalog into the products collection.
func (s *CatalogService) SeedProducts(ctx context.Context) (int, error) {
	products := model.FallbackProducts()
	if err := s.products.SaveProducts(ctx, products); err != nil {
		return 0, err
	}
	s.log.Info("products seeded", zap.Int("count", len(products)))
	return len(products), nil
}
