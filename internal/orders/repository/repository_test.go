package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(userID, key string, createdAt time.Time) *domain.Order {
	return &domain.Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		TotalAmount: 20,
		Status:      domain.OrderStatusPending,
		Items: []domain.OrderItem{
			{ProductID: "sku1", Quantity: 2, Price: 10},
		},
		ShippingAddress: domain.ShippingAddress{
			FirstName:  "Ada",
			LastName:   "Lovelace",
			Email:      "ada@example.com",
			Address:    "12 Analytical St",
			City:       "London",
			PostalCode: "N1",
		},
		IdempotencyKey: key,
		CreatedAt:      createdAt.UTC().Truncate(time.Millisecond),
		UpdatedAt:      createdAt.UTC().Truncate(time.Millisecond),
	}
}

// testOrderRepository runs the behaviour every OrderRepository backend
// must share.
func testOrderRepository(t *testing.T, repo OrderRepository) {
	ctx := context.Background()
	base := time.Now()

	t.Run("CreateAndGet", func(t *testing.T) {
		order := newTestOrder("user-create", "", base)
		require.NoError(t, repo.CreateOrder(ctx, order))

		fetched, err := repo.GetOrderForUser(ctx, "user-create", order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, fetched.ID)
		assert.Equal(t, order.UserID, fetched.UserID)
		assert.Equal(t, 20.0, fetched.TotalAmount)
		assert.Equal(t, domain.OrderStatusPending, fetched.Status)
		assert.Equal(t, order.ShippingAddress, fetched.ShippingAddress)
		require.Len(t, fetched.Items, 1)
		assert.Equal(t, order.Items[0], fetched.Items[0])
		assert.True(t, order.CreatedAt.Equal(fetched.CreatedAt))
	})

	t.Run("OtherUsersOrderIsNotFound", func(t *testing.T) {
		order := newTestOrder("user-owner", "", base)
		require.NoError(t, repo.CreateOrder(ctx, order))

		_, err := repo.GetOrderForUser(ctx, "user-intruder", order.ID)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("UnknownOrderIsNotFound", func(t *testing.T) {
		_, err := repo.GetOrderForUser(ctx, "user-create", "does-not-exist")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("DuplicateIdempotencyKey", func(t *testing.T) {
		first := newTestOrder("user-idem", "key-1", base)
		require.NoError(t, repo.CreateOrder(ctx, first))

		err := repo.CreateOrder(ctx, newTestOrder("user-idem", "key-1", base))
		assert.ErrorIs(t, err, ErrDuplicateOrder)

		// same key for another user is independent
		require.NoError(t, repo.CreateOrder(ctx, newTestOrder("user-idem-2", "key-1", base)))

		found, err := repo.GetOrderByIdempotencyKey(ctx, "user-idem", "key-1")
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)
	})

	t.Run("OrdersWithoutKeyNeverCollide", func(t *testing.T) {
		require.NoError(t, repo.CreateOrder(ctx, newTestOrder("user-nokey", "", base)))
		require.NoError(t, repo.CreateOrder(ctx, newTestOrder("user-nokey", "", base)))

		_, err := repo.GetOrderByIdempotencyKey(ctx, "user-nokey", "")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		older := newTestOrder("user-list", "", base.Add(-time.Hour))
		newer := newTestOrder("user-list", "", base)
		require.NoError(t, repo.CreateOrder(ctx, older))
		require.NoError(t, repo.CreateOrder(ctx, newer))
		require.NoError(t, repo.CreateOrder(ctx, newTestOrder("user-other", "", base)))

		orders, err := repo.ListOrdersByUserID(ctx, "user-list")
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, newer.ID, orders[0].ID)
		assert.Equal(t, older.ID, orders[1].ID)
	})

	t.Run("ListEmpty", func(t *testing.T) {
		orders, err := repo.ListOrdersByUserID(ctx, "user-without-orders")
		require.NoError(t, err)
		assert.NotNil(t, orders)
		assert.Empty(t, orders)
	})
}
