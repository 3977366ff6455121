package service

import (
	"context"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// CartAPI is the remote commerce API as the manager sees it. Every call either
// returns the whole updated cart or fails without partial effect.
type CartAPI interface {
	CreateCart(ctx context.Context, input domain.CartInput) (*domain.Cart, error)
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)
	AddLines(ctx context.Context, cartID string, lines []domain.LineInput) (*domain.Cart, error)
	UpdateLines(ctx context.Context, cartID string, lines []domain.LineUpdate) (*domain.Cart, error)
	RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error)
	UpdateBuyerIdentity(ctx context.Context, cartID string, identity domain.BuyerIdentity) (*domain.Cart, error)
	UpdateDiscountCodes(ctx context.Context, cartID string, codes []string) (*domain.Cart, error)
}

type EventType string

const (
	EventCartCreated      EventType = "cart_created"
	EventLinesAdded       EventType = "lines_added"
	EventLinesUpdated     EventType = "lines_updated"
	EventLinesRemoved     EventType = "lines_removed"
	EventCartCleared      EventType = "cart_cleared"
	EventBuyerUpdated     EventType = "buyer_updated"
	EventDiscountsUpdated EventType = "discounts_updated"
)

// CartEvent describes one successful change to a session's cart.
type CartEvent struct {
	Session   string       `json:"session_id"`
	CartID    string       `json:"cart_id"`
	Type      EventType    `json:"event_type"`
	ItemCount int          `json:"item_count"`
	Subtotal  domain.Money `json:"subtotal"`
	At        time.Time    `json:"at"`
}

type EventSink interface {
	RecordCartEvent(ctx context.Context, event CartEvent) error
}

// State is what views render. Cart is nil until a cart has been loaded.
type State struct {
	Cart      *domain.Cart
	Loading   bool
	PanelOpen bool
	LastError string
}
