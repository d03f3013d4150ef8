package poller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	c "github.com/owaisraza72/Full-Stack-E-Commerce/internal/cart/cache"
	r "github.com/owaisraza72/Full-Stack-E-Commerce/internal/cart/repository"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
	"github.com/segmentio/kafka-go"
)

// Poller drops the server-side cart of a user once one of their orders has
// been placed. Carts touched after the order was placed are kept.
type Poller struct {
	repo   r.CartRepository
	reader *kafka.Reader
	cache  c.CartCache
	log    *slog.Logger
}

func NewPoller(repo r.CartRepository, cache c.CartCache, log *slog.Logger, brokers ...string) *Poller {
	if log == nil {
		log = slog.Default()
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    domain.OrderEventsTopic,
		GroupID:  "cart-service-consumer",
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{repo: repo, reader: reader, cache: cache, log: log.With("component", "cart_poller")}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		p.getMessageAndEmptyCart(ctx)
	}
}

func (p *Poller) Close() error {
	return p.reader.Close()
}

func (p *Poller) getMessageAndEmptyCart(ctx context.Context) {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.log.Error("error reading message", "error", err)
		}
		return
	}
	p.handle(ctx, m.Value)
}

func (p *Poller) handle(ctx context.Context, value []byte) {
	var event domain.OrderPlaced
	if err := json.Unmarshal(value, &event); err != nil {
		p.log.Warn("skipping malformed order event", "error", err)
		return
	}
	if event.UserID == "" {
		p.log.Warn("skipping order event without user_id", "order_id", event.OrderID)
		return
	}

	err := p.repo.DeleteCartIfUnchangedSince(ctx, event.UserID, event.PlacedAt)
	switch {
	case errors.Is(err, r.ErrCartNotFound):
		p.log.Debug("no stale cart to clear", "user_id", event.UserID, "order_id", event.OrderID)
	case err != nil:
		p.log.Error("failed to delete cart", "user_id", event.UserID, "error", err)
		return
	default:
		p.log.Info("cleared cart after order", "user_id", event.UserID, "order_id", event.OrderID)
	}

	if err := p.cache.Delete(ctx, event.UserID); err != nil {
		p.log.Warn("failed to delete cached cart", "user_id", event.UserID, "error", err)
	}
}
