// Package client talks to the storefront REST API on behalf of a shopper.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/clientcart"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
)

const (
	apiPrefix      = "/api/v1"
	tokenCookie    = "token"
	defaultTimeout = 15 * time.Second
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrEmptyCart   = errors.New("cart is empty")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error status=%d code=%s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error status=%d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New returns a client for the API rooted at baseURL, e.g.
// http://localhost:8080.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// SetToken restores a session obtained by an earlier Login.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Token() string { return c.token }

// Login authenticates and keeps the session token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	body := map[string]string{"email": email, "password": password}
	res, err := c.do(ctx, http.MethodPost, "/auth/login", body, nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var user domain.User
	if err := decode(res, &user); err != nil {
		return nil, err
	}
	for _, ck := range res.Cookies() {
		if ck.Name == tokenCookie && ck.Value != "" {
			c.token = ck.Value
		}
	}
	if c.token == "" {
		return nil, fmt.Errorf("login response carried no session token")
	}
	return &user, nil
}

func (c *Client) Products(ctx context.Context) ([]*domain.Product, error) {
	res, err := c.do(ctx, http.MethodGet, "/products", nil, nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var out struct {
		Products []*domain.Product `json:"products"`
	}
	if err := decode(res, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	res, err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var p domain.Product
	if err := decode(res, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

type placeOrderRequest struct {
	Items           []domain.OrderItem     `json:"items"`
	TotalAmount     float64                `json:"totalAmount"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
}

// PlaceOrder submits an order under idempotencyKey. Retrying with the same
// key returns the order created by the first attempt.
func (c *Client) PlaceOrder(ctx context.Context, items []domain.OrderItem, total float64, addr domain.ShippingAddress, idempotencyKey string) (*domain.Order, error) {
	if c.token == "" {
		return nil, ErrNotLoggedIn
	}
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}

	req := placeOrderRequest{Items: items, TotalAmount: total, ShippingAddress: addr}
	res, err := c.do(ctx, http.MethodPost, "/orders", req, headers)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var order domain.Order
	if err := decode(res, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) Orders(ctx context.Context) ([]*domain.Order, error) {
	if c.token == "" {
		return nil, ErrNotLoggedIn
	}
	res, err := c.do(ctx, http.MethodGet, "/orders", nil, nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var orders []*domain.Order
	if err := decode(res, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Checkout places an order from the store's current lines and clears the
// store once the server has accepted it. On any failure the store is left
// untouched so the shopper can retry; the retry reuses the store's checkout
// key and so returns the order if the first attempt reached the server.
func (c *Client) Checkout(ctx context.Context, store *clientcart.Store, addr domain.ShippingAddress) (*domain.Order, error) {
	lines := store.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, domain.OrderItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.UnitPrice,
		})
	}

	order, err := c.PlaceOrder(ctx, items, store.Total(), addr, store.CheckoutKey())
	if err != nil {
		return nil, err
	}
	if err := store.Clear(); err != nil {
		return order, fmt.Errorf("order %s placed but local cart not cleared: %w", order.ID, err)
	}
	return order, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return res, nil
	}
	defer res.Body.Close()

	apiErr := &APIError{Status: res.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	var payload struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		apiErr.Message, apiErr.Code = payload.Error, payload.Code
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return nil, apiErr
}

func decode(res *http.Response, dst any) error {
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
