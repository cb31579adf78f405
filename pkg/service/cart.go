package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CartStore is the persistence surface the cart engine needs.
type CartStore interface {
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, userID primitive.ObjectID) error
}

// ProductReader resolves product references for price snapshots.
type ProductReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

// Cart mutations are load-modify-save cycles against a shared document.
// Saves are version-conditional; a conflicting write is retried from a fresh
// load up to maxSaveRetries times. Only conflicts are retried.
const maxSaveRetries = 3

type CartService struct {
	carts    CartStore
	products ProductReader
	logger   *zap.Logger
}

func NewCartService(carts CartStore, products ProductReader, logger *zap.Logger) *CartService {
	return &CartService{carts: carts, products: products, logger: logger}
}

// Get returns the user's cart, or ErrCartNotFound if none exists yet.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return cart, nil
}

// AddItem snapshots the product's effective price and merges the line into
// the user's cart, creating the cart lazily on first use.
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int, color, size string) (*models.Cart, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	return s.mutate(ctx, userID, true, func(cart *models.Cart) error {
		return cart.AddItem(product, quantity, color, size)
	})
}

// UpdateItem overwrites the quantity of an existing line.
func (s *CartService) UpdateItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int, color, size string) (*models.Cart, error) {
	return s.mutate(ctx, userID, false, func(cart *models.Cart) error {
		return cart.UpdateQuantity(productID, quantity, color, size)
	})
}

// RemoveItem drops a line from the cart; removing an absent line is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID, color, size string) (*models.Cart, error) {
	return s.mutate(ctx, userID, false, func(cart *models.Cart) error {
		cart.RemoveItem(productID, color, size)
		return nil
	})
}

// Clear empties the cart and drops any coupon.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	return s.mutate(ctx, userID, false, func(cart *models.Cart) error {
		cart.Clear()
		return nil
	})
}

// ApplyCoupon records the coupon against the cart. The discount amount is
// taken as given; validating it belongs to a promotion system outside this
// engine.
func (s *CartService) ApplyCoupon(ctx context.Context, userID primitive.ObjectID, code string, discountAmount float64) (*models.Cart, error) {
	return s.mutate(ctx, userID, false, func(cart *models.Cart) error {
		cart.ApplyCoupon(code, discountAmount)
		return nil
	})
}

// RemoveCoupon clears any applied coupon.
func (s *CartService) RemoveCoupon(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	return s.mutate(ctx, userID, false, func(cart *models.Cart) error {
		cart.RemoveCoupon()
		return nil
	})
}

// mutate runs a load-modify-save cycle, retrying version conflicts with a
// fresh load. Domain errors from the mutation abort without retry.
func (s *CartService) mutate(ctx context.Context, userID primitive.ObjectID, createIfMissing bool, fn func(*models.Cart) error) (*models.Cart, error) {
	var lastErr error
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		cart, err := s.carts.GetByUser(ctx, userID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			if !createIfMissing {
				return nil, ErrCartNotFound
			}
			cart = models.NewCart(userID)
		}

		if err := fn(cart); err != nil {
			return nil, err
		}

		err = s.carts.Save(ctx, cart)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}

		lastErr = err
		s.logger.Warn("cart save conflict, retrying",
			zap.String("user_id", userID.Hex()),
			zap.Int("attempt", attempt+1))
	}
	return nil, fmt.Errorf("cart mutation exhausted retries: %w", lastErr)
}
