package domain

import "time"

// OrderItem freezes the price paid for a product. The product itself is
// only referenced, so later catalog edits never reach historical orders.
type OrderItem struct {
	ProductID string  `bson:"product" json:"product"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Price     float64 `bson:"price" json:"price"`
}

type ShippingAddress struct {
	FirstName  string `bson:"first_name" json:"firstName"`
	LastName   string `bson:"last_name" json:"lastName"`
	Email      string `bson:"email" json:"email"`
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postal_code" json:"postalCode"`
}

type Order struct {
	ID              string          `bson:"_id" json:"id"`
	UserID          string          `bson:"user" json:"user"`
	Items           []OrderItem     `bson:"items" json:"items"`
	TotalAmount     float64         `bson:"total_amount" json:"totalAmount"`
	ShippingAddress ShippingAddress `bson:"shipping_address" json:"shippingAddress"`
	Status          OrderStatus     `bson:"status" json:"status"`
	IdempotencyKey  string          `bson:"idempotency_key,omitempty" json:"-"`
	CreatedAt       time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updated_at" json:"updatedAt"`
}

// PlaceOrder is a checkout submission: the client's cart snapshot plus
// where to ship it. TotalAmount is client computed.
type PlaceOrder struct {
	UserID          string
	Items           []OrderItem
	TotalAmount     float64
	ShippingAddress ShippingAddress
	IdempotencyKey  string
}

// OrderEventsTopic carries OrderPlaced events.
const OrderEventsTopic = "order-events"

// OrderPlaced is published after an order has been persisted.
type OrderPlaced struct {
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	TotalAmount float64   `json:"total_amount"`
	PlacedAt    time.Time `json:"placed_at"`
}
