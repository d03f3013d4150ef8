// Package clientcart is the client-held cart: the authoritative cart at
// checkout time. It lives in memory and mirrors every change to a Persister
// so that it survives restarts of the client.
package clientcart

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one cart entry. UnitPrice is the product price seen when the
// line was first added and is not refreshed afterwards.
type Line struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPriceSnapshot"`
}

// Product is the catalog data needed to add a line.
type Product struct {
	ID    string
	Name  string
	Price float64
}

// Snapshot is the durable form of a Store. CheckoutKey is the idempotency
// key of a checkout that has not been confirmed yet.
type Snapshot struct {
	Lines       []Line `json:"lines"`
	CheckoutKey string `json:"checkoutKey,omitempty"`
}

// Persister keeps the durable copy of the cart.
type Persister interface {
	// Load returns ErrNoSnapshot when nothing has been saved yet.
	Load() (Snapshot, error)
	Save(snap Snapshot) error
	Erase() error
}

var ErrNoSnapshot = errors.New("no saved cart")

type Store struct {
	mu          sync.Mutex
	lines       []Line
	checkoutKey string
	persister   Persister
	log       *slog.Logger
}

// NewStore hydrates a store from p. A missing or unreadable durable copy
// yields an empty cart.
func NewStore(p Persister, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{persister: p, log: log.With("component", "client_cart"), lines: []Line{}}

	snap, err := p.Load()
	switch {
	case errors.Is(err, ErrNoSnapshot):
	case err != nil:
		s.log.Warn("discarding unreadable saved cart", "error", err)
	default:
		s.lines = sanitize(snap.Lines)
		if len(s.lines) > 0 {
			s.checkoutKey = snap.CheckoutKey
		}
	}
	return s
}

// AddLine adds quantity units of product, merging with an existing line for
// the same product. A non-positive quantity adds one unit.
func (s *Store) AddLine(product Product, quantity int) error {
	if quantity <= 0 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(product.ID); i >= 0 {
		s.lines[i].Quantity += quantity
	} else {
		s.lines = append(s.lines, Line{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  quantity,
			UnitPrice: product.Price,
		})
	}
	s.checkoutKey = ""
	return s.persistLocked()
}

func (s *Store) RemoveLine(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return nil
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.checkoutKey = ""
	return s.persistLocked()
}

// SetQuantity sets the line's quantity, never below one. Unknown products
// are ignored.
func (s *Store) SetQuantity(productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return nil
	}
	if q := max(1, quantity); q != s.lines[i].Quantity {
		s.lines[i].Quantity = q
		s.checkoutKey = ""
	}
	return s.persistLocked()
}

// Clear empties the cart and erases its durable copy.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = []Line{}
	s.checkoutKey = ""
	return s.persister.Erase()
}

// CheckoutKey returns the idempotency key for checking out the current
// lines. The same key is returned until the lines change or the cart is
// cleared, so a retried checkout cannot place a second order. A failure to
// save a new key is logged and the in-memory key is still returned.
func (s *Store) CheckoutKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checkoutKey == "" {
		s.checkoutKey = uuid.NewString()
		_ = s.persistLocked()
	}
	return s.checkoutKey
}

// Lines returns a copy of the cart in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Total is sum(quantity * unit price), rounded to cents.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total.Round(2).InexactFloat64()
}

func (s *Store) indexOf(productID string) int {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// persistLocked saves the current lines. The in-memory change stands even
// when saving fails.
func (s *Store) persistLocked() error {
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	if err := s.persister.Save(Snapshot{Lines: lines, CheckoutKey: s.checkoutKey}); err != nil {
		s.log.Warn("failed to save cart", "error", err)
		return err
	}
	return nil
}

// sanitize merges duplicate products and drops lines without a product or
// with a non-positive quantity.
func sanitize(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	seen := make(map[string]int, len(lines))
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity <= 0 {
			continue
		}
		if i, ok := seen[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		seen[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out
}
