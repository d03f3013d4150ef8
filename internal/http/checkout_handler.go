package http

import (
	"context"
	"net/http"

	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
)

const idempotencyKeyHeader = "Idempotency-Key"

type OrderItemDTO struct {
	ProductID string  `json:"product" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Price     float64 `json:"price" validate:"gte=0"`
}

type ShippingAddressDTO struct {
	FirstName  string `json:"firstName" validate:"required,max=50"`
	LastName   string `json:"lastName" validate:"required,max=50"`
	Email      string `json:"email" validate:"required,email"`
	Address    string `json:"address" validate:"required,max=200"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
}

// PlaceOrderRequestDTO is the client's cart snapshot at checkout.
type PlaceOrderRequestDTO struct {
	Items           []OrderItemDTO      `json:"items" validate:"required,min=1,dive"`
	TotalAmount     *float64            `json:"totalAmount" validate:"required,gte=0"`
	ShippingAddress *ShippingAddressDTO `json:"shippingAddress" validate:"required"`
}

// POST /api/v1/orders
func (h *OrdersHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req PlaceOrderRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	key := r.Header.Get(idempotencyKeyHeader)
	if len(key) > 128 {
		respondError(w, http.StatusBadRequest, "invalid_idempotency_key", "Idempotency-Key must be at most 128 characters")
		return
	}

	order, err := h.orders.CreateOrder(ctx, req.toDomain(user.ID, key))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (req *PlaceOrderRequestDTO) toDomain(userID, key string) domain.PlaceOrder {
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	addr := req.ShippingAddress
	return domain.PlaceOrder{
		UserID:      userID,
		Items:       items,
		TotalAmount: *req.TotalAmount,
		ShippingAddress: domain.ShippingAddress{
			FirstName:  addr.FirstName,
			LastName:   addr.LastName,
			Email:      addr.Email,
			Address:    addr.Address,
			City:       addr.City,
			PostalCode: addr.PostalCode,
		},
		IdempotencyKey: key,
	}
}
