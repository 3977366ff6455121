package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	Topic   = "checkout-completed"
	GroupID = "storefront-cart"
)

var ErrBadPayload = errors.New("bad checkout payload")

// CartForgetter drops a converted cart from its session.
type CartForgetter interface {
	ForgetCart(ctx context.Context, cartID string) error
}

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type checkoutCompleted struct {
	CartID string `json:"cart_id"`
}

// Poller consumes checkout completions so a shopper's next visit starts
// with a fresh cart.
type Poller struct {
	carts  CartForgetter
	reader MessageReader
	log    *zap.Logger
}

func NewPoller(carts CartForgetter, log *zap.Logger, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    Topic,
		GroupID:  GroupID,
		MaxBytes: 10e6, // 10MB
	})
	return newPoller(carts, reader, log)
}

func newPoller(carts CartForgetter, reader MessageReader, log *zap.Logger) *Poller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{carts: carts, reader: reader, log: log}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		m, err := p.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				p.log.Warn("error reading message", zap.Error(err))
			}
			continue
		}
		if err := p.handle(ctx, m); err != nil {
			p.log.Warn("checkout message skipped",
				zap.Int64("offset", m.Offset), zap.Int("partition", m.Partition), zap.Error(err))
		}
	}
}

func (p *Poller) handle(ctx context.Context, m kafka.Message) error {
	var payload checkoutCompleted
	if err := json.Unmarshal(m.Value, &payload); err != nil {
		return fmt.Errorf("%w: %w", ErrBadPayload, err)
	}
	if payload.CartID == "" {
		return fmt.Errorf("%w: missing cart_id", ErrBadPayload)
	}

	if err := p.carts.ForgetCart(ctx, payload.CartID); err != nil {
		return fmt.Errorf("failed to forget cart: %w", err)
	}
	p.log.Debug("checkout completed", zap.String("cart_id", payload.CartID))
	return nil
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		p.log.Warn("error closing reader", zap.Error(err))
	}
}
