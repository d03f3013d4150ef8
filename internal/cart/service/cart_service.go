package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/cart/cache"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/cart/repository"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ProductLookup resolves catalog products for price snapshots.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

var ErrInvalidQuantity = errors.New("quantity must be positive")

type CartService struct {
	repo     repository.CartRepository
	cache    cache.CartCache
	products ProductLookup
	log      *slog.Logger
	sfg      singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartRepository, cache cache.CartCache, products ProductLookup, log *slog.Logger) *CartService {
	if log == nil {
		log = slog.Default()
	}
	return &CartService{
		repo:     repo,
		cache:    cache,
		products: products,
		log:      log,
	}
}

// GetCart returns the user's cart, or an empty one when none exists yet.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.WarnContext(ctx, "cart cache get failed", "user_id", userID, "error", err)
		}

		// Read the version before the repo so a ClearCart racing this load
		// makes the write-back below a no-op.
		version, verErr := s.cache.Version(ctx, userID)
		if verErr != nil {
			s.log.WarnContext(ctx, "cart cache version failed", "user_id", userID, "error", verErr)
		}

		cart, err = s.repo.GetCart(ctx, userID)
		if errors.Is(err, repository.ErrCartNotFound) {
			return emptyCart(userID), nil
		}
		if err != nil {
			return nil, err
		}

		if verErr == nil {
			go s.writeBack(userID, cart, version)
		}

		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem adds quantity units of a catalog product, merging into an
// existing line. A non-positive quantity adds one unit.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	err = s.repo.AddItem(ctx, userID, domain.CartItem{
		ProductID: product.ID,
		Quantity:  quantity,
		Price:     product.Price,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "repo add item failed", "user_id", userID, "product_id", productID, "error", err)
		return nil, err
	}

	s.invalidateCache(userID)
	return s.freshCart(ctx, userID)
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidQuantity, quantity)
	}

	if err := s.repo.UpdateItemQuantity(ctx, userID, productID, quantity); err != nil {
		if !errors.Is(err, repository.ErrItemNotFound) {
			s.log.ErrorContext(ctx, "repo update item quantity failed", "user_id", userID, "error", err)
		}
		return nil, err
	}

	s.invalidateCache(userID)
	return s.freshCart(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
		if !errors.Is(err, repository.ErrCartNotFound) {
			s.log.ErrorContext(ctx, "repo remove item failed", "user_id", userID, "error", err)
		}
		return nil, err
	}

	s.invalidateCache(userID)
	return s.freshCart(ctx, userID)
}

// ClearCart deletes the user's cart. Clearing a missing cart succeeds.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	err := s.repo.DeleteCart(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		s.log.ErrorContext(ctx, "repo delete cart failed", "user_id", userID, "error", err)
		return err
	}

	s.invalidateCache(userID)
	return nil
}

func (s *CartService) freshCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return emptyCart(userID), nil
	}
	return cart, err
}

func (s *CartService) writeBack(userID string, cart *domain.Cart, version int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := s.cache.Set(ctx, userID, cart, version)
	switch {
	case errors.Is(err, cache.ErrStaleVersion):
		s.log.Debug("skipped caching invalidated cart", "user_id", userID)
	case err != nil:
		s.log.Warn("cart cache set failed", "user_id", userID, "error", err)
	}
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.log.Warn("cart cache invalidate failed", "user_id", userID, "error", err)
	}
}

func emptyCart(userID string) *domain.Cart {
	now := time.Now()
	return &domain.Cart{
		UserID:    userID,
		Items:     []domain.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
