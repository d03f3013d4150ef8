package cache

import (
	"context"
	"errors"
	"log/slog"

	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
	"github.com/owaisraza72/Full-Stack-E-Commerce/pkg/circuitbreaker"
	"github.com/sony/gobreaker/v2"
)

// BreakerCache guards a CartCache with a circuit breaker so an unreachable
// cache is skipped instead of adding latency to every request. A miss is
// not a failure, and neither is a refused stale write.
type BreakerCache struct {
	next    CartCache
	breaker *gobreaker.CircuitBreaker[*domain.Cart]
}

func NewBreakerCache(next CartCache, log *slog.Logger) *BreakerCache {
	cfg := circuitbreaker.DefaultConfig("cart-cache")
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrCacheMiss) || errors.Is(err, ErrStaleVersion)
	}
	return &BreakerCache{
		next:    next,
		breaker: circuitbreaker.New[*domain.Cart](cfg, log),
	}
}

func (b *BreakerCache) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return b.breaker.Execute(func() (*domain.Cart, error) {
		return b.next.Get(ctx, userID)
	})
}

func (b *BreakerCache) Version(ctx context.Context, userID string) (int64, error) {
	var version int64
	_, err := b.breaker.Execute(func() (*domain.Cart, error) {
		v, err := b.next.Version(ctx, userID)
		version = v
		return nil, err
	})
	return version, err
}

func (b *BreakerCache) Set(ctx context.Context, userID string, cart *domain.Cart, version int64) error {
	_, err := b.breaker.Execute(func() (*domain.Cart, error) {
		return nil, b.next.Set(ctx, userID, cart, version)
	})
	return err
}

// Delete bypasses the breaker: invalidation must always be attempted so a
// recovering cache does not serve a stale cart.
func (b *BreakerCache) Delete(ctx context.Context, userID string) error {
	return b.next.Delete(ctx, userID)
}
