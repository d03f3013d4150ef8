package cache

import (
	"context"
	"errors"

	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
)

// CartCache is a read-through cache of server carts. Every Delete bumps a
// per-user version; Set only stores a cart read under the current version,
// so a cart loaded before an invalidation can never be written back.
type CartCache interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Version(ctx context.Context, userID string) (int64, error)
	Set(ctx context.Context, userID string, cart *domain.Cart, version int64) error
	Delete(ctx context.Context, userID string) error
}

var (
	ErrCacheMiss    = errors.New("cache miss")
	ErrStaleVersion = errors.New("cart invalidated since it was read")
)
