package repository

import (
	"context"
	"errors"
	"time"

	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("item not found in cart")
)

// CartRepository defines the interface for cart data operations
// Consumers define this interface, not the MongoDB implementation
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, item domain.CartItem) error
	UpdateItemQuantity(ctx context.Context, userID string, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID string, productID string) error
	DeleteCart(ctx context.Context, userID string) error
	// DeleteCartIfUnchangedSince deletes the cart only when it was last
	// updated at or before since.
	DeleteCartIfUnchangedSince(ctx context.Context, userID string, since time.Time) error
}
