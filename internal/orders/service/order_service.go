package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	cartrepo "github.com/owaisraza72/Full-Stack-E-Commerce/internal/cart/repository"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/orders/publisher"
	r "github.com/owaisraza72/Full-Stack-E-Commerce/internal/orders/repository"
	"github.com/shopspring/decimal"
)

// CartClearer empties the server-side cart of a user.
type CartClearer interface {
	ClearCart(ctx context.Context, userID string) error
}

type OrderService struct {
	repo      r.OrderRepository
	carts     CartClearer
	publisher publisher.Publisher
	log       *slog.Logger
	now       func() time.Time
}

func NewOrderService(repo r.OrderRepository, carts CartClearer, pub publisher.Publisher, log *slog.Logger) *OrderService {
	if pub == nil {
		pub = publisher.Noop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &OrderService{
		repo:      repo,
		carts:     carts,
		publisher: pub,
		log:       log.With("component", "order_service"),
		now:       time.Now,
	}
}

// CreateOrder persists the submitted cart snapshot as a pending order and
// then clears the user's server-side cart. Only a persistence failure is
// reported; clearing and event publishing are best effort.
func (s *OrderService) CreateOrder(ctx context.Context, req domain.PlaceOrder) (*domain.Order, error) {
	if req.IdempotencyKey != "" {
		existing, err := s.repo.GetOrderByIdempotencyKey(ctx, req.UserID, req.IdempotencyKey)
		if err == nil {
			s.log.InfoContext(ctx, "duplicate order submission",
				"user_id", req.UserID, "order_id", existing.ID)
			return existing, nil
		}
		if !errors.Is(err, r.ErrOrderNotFound) {
			return nil, fmt.Errorf("failed to check idempotency: %w", err)
		}
	}

	s.checkTotal(ctx, req)

	now := s.now().UTC().Truncate(time.Millisecond)
	order := &domain.Order{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		Items:           append(make([]domain.OrderItem, 0, len(req.Items)), req.Items...),
		TotalAmount:     req.TotalAmount,
		ShippingAddress: req.ShippingAddress,
		Status:          domain.OrderStatusPending,
		IdempotencyKey:  req.IdempotencyKey,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, r.ErrDuplicateOrder) && req.IdempotencyKey != "" {
			// lost a race with a concurrent submission carrying the same key
			return s.repo.GetOrderByIdempotencyKey(ctx, req.UserID, req.IdempotencyKey)
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.carts.ClearCart(ctx, req.UserID); err != nil && !errors.Is(err, cartrepo.ErrCartNotFound) {
		s.log.WarnContext(ctx, "failed to clear cart after order",
			"user_id", req.UserID, "order_id", order.ID, "error", err)
	}

	event := domain.OrderPlaced{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		PlacedAt:    order.CreatedAt,
	}
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		s.log.WarnContext(ctx, "failed to publish order event", "order_id", order.ID, "error", err)
	}

	s.log.InfoContext(ctx, "order placed",
		"user_id", order.UserID, "order_id", order.ID, "items", len(order.Items))
	return order, nil
}

func (s *OrderService) checkTotal(ctx context.Context, req domain.PlaceOrder) {
	sum := decimal.Zero
	for _, item := range req.Items {
		sum = sum.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	claimed := decimal.NewFromFloat(req.TotalAmount)
	if !sum.Round(2).Equal(claimed.Round(2)) {
		s.log.WarnContext(ctx, "order total does not match items",
			"user_id", req.UserID, "claimed", claimed.String(), "computed", sum.String())
	}
}

// ListOrders returns the user's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	orders, err := s.repo.ListOrdersByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.repo.GetOrderForUser(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, r.ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}
