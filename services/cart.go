package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"ecocart/model"
	"ecocart/repository"
)

// CartService manages the personal cart stored at carts/{userId}.
type CartService struct {
	carts   repository.CartStore
	catalog *CatalogService
	log     *zap.Logger
}

func NewCartService(carts repository.CartStore, catalog *CatalogService, log *zap.Logger) *CartService {
	return &CartService{carts: carts, catalog: catalog, log: log.Named("cart")}
}

// GetCart returns the stored cart, or an empty one that is not persisted.
func (s *CartService) GetCart(ctx context.Context, userID string) (*model.Cart, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	cart, err := s.carts.GetCart(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.NewPersonalCart(userID), nil
	}
	if err != nil {
		return nil, backendError(s.log, "Could not load your cart. Please try again.", err, zap.String("user_id", userID))
	}
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	return cart, nil
}

func (s *CartService) AddItem(ctx context.Context, userID, productID string) (*model.Cart, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	product, ok := s.catalog.GetProduct(ctx, productID)
	if !ok {
		return nil, ErrProductNotFound
	}

	cart, err := s.carts.UpdateCart(ctx, userID, func(c *model.Cart, _ bool) error {
		c.Items = model.AddProduct(c.Items, *product)
		return nil
	})
	if err != nil {
		return nil, backendError(s.log, "Could not add item to cart. Please try again.", err,
			zap.String("user_id", userID), zap.String("product_id", productID))
	}
	return cart, nil
}

func (s *CartService) SetItemQuantity(ctx context.Context, userID, itemID string, change model.QuantityChange) (*model.Cart, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	cart, err := s.carts.UpdateCart(ctx, userID, func(c *model.Cart, _ bool) error {
		items, ok := model.ApplyQuantityChange(c.Items, itemID, change)
		if !ok {
			return ErrItemNotFound
		}
		c.Items = items
		return nil
	})
	if errors.Is(err, ErrItemNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, backendError(s.log, "Could not update the item. Please try again.", err,
			zap.String("user_id", userID), zap.String("item_id", itemID))
	}
	return cart, nil
}
