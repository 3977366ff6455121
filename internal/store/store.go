package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("cart id not found")

// CartIDStore persists the cart identifier of every shopper session.
type CartIDStore interface {
	// Get returns the cart id stored for session or ErrNotFound.
	Get(ctx context.Context, session string) (string, error)
	// Set stores cartID for session, replacing any previous value.
	Set(ctx context.Context, session, cartID string) error
	// Delete forgets the session's cart id; deleting nothing is not an error.
	Delete(ctx context.Context, session string) error
	// SessionFor returns the session that owns cartID or ErrNotFound.
	SessionFor(ctx context.Context, cartID string) (string, error)
}

// Slot is the single durable slot a cart manager reads and writes.
type Slot interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, cartID string) error
	Clear(ctx context.Context) error
}

// SessionSlot binds a CartIDStore to one session.
func SessionSlot(s CartIDStore, session string) Slot {
	return sessionSlot{store: s, session: session}
}

type sessionSlot struct {
	store   CartIDStore
	session string
}

func (s sessionSlot) Load(ctx context.Context) (string, error) {
	return s.store.Get(ctx, s.session)
}

func (s sessionSlot) Save(ctx context.Context, cartID string) error {
	return s.store.Set(ctx, s.session, cartID)
}

func (s sessionSlot) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, s.session)
}
