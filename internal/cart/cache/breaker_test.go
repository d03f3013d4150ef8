package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
	"github.com/owaisraza72/Full-Stack-E-Commerce/pkg/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyCache struct {
	getErr  error
	setErr  error
	calls   int
	deletes int
}

func (f *flakyCache) Get(context.Context, string) (*domain.Cart, error) {
	f.calls++
	return nil, f.getErr
}

func (f *flakyCache) Version(context.Context, string) (int64, error) {
	f.calls++
	return 0, f.getErr
}

func (f *flakyCache) Set(context.Context, string, *domain.Cart, int64) error {
	f.calls++
	return f.setErr
}

func (f *flakyCache) Delete(context.Context, string) error {
	f.deletes++
	return nil
}

func TestBreakerCache_OpensOnBackendFailures(t *testing.T) {
	inner := &flakyCache{getErr: errors.New("connection refused")}
	c := NewBreakerCache(inner, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := c.Get(ctx, "u1")
		require.Error(t, err)
	}
	require.Equal(t, 5, inner.calls)

	_, err := c.Get(ctx, "u1")
	assert.True(t, circuitbreaker.IsOpen(err))
	assert.Equal(t, 5, inner.calls, "open breaker must not reach the backend")

	// invalidation still goes through
	require.NoError(t, c.Delete(ctx, "u1"))
	assert.Equal(t, 1, inner.deletes)
}

func TestBreakerCache_MissesKeepBreakerClosed(t *testing.T) {
	inner := &flakyCache{getErr: ErrCacheMiss}
	c := NewBreakerCache(inner, nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := c.Get(ctx, "u1")
		assert.ErrorIs(t, err, ErrCacheMiss)
	}
	assert.Equal(t, 10, inner.calls)
}

func TestBreakerCache_StaleWritesKeepBreakerClosed(t *testing.T) {
	inner := &flakyCache{setErr: ErrStaleVersion}
	c := NewBreakerCache(inner, nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		err := c.Set(ctx, "u1", &domain.Cart{}, 0)
		assert.ErrorIs(t, err, ErrStaleVersion)
	}
	assert.Equal(t, 10, inner.calls)
}

func TestBreakerCache_VersionFailuresCount(t *testing.T) {
	inner := &flakyCache{getErr: errors.New("connection refused")}
	c := NewBreakerCache(inner, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := c.Version(ctx, "u1")
		require.Error(t, err)
	}

	_, err := c.Get(ctx, "u1")
	assert.True(t, circuitbreaker.IsOpen(err))
}
