package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/money"
	"github.com/fjod/go_cart/storefront/internal/notify"
	"github.com/fjod/go_cart/storefront/internal/store"
	"github.com/fjod/go_cart/storefront/pkg/logger"
	"go.uber.org/zap"
)

// Manager keeps one session's view of its remote cart. Mutations go through
// a FIFO queue so each one starts from the snapshot its predecessor produced.
type Manager struct {
	api      CartAPI
	slot     store.Slot
	notifier notify.Notifier
	events   EventSink
	session  string
	log      *zap.Logger
	now      func() time.Time

	queue opQueue

	mu    sync.RWMutex
	state State
}

type Option func(*Manager)

func WithNotifier(n notify.Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

func WithEventSink(s EventSink) Option {
	return func(m *Manager) { m.events = s }
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func WithSession(session string) Option {
	return func(m *Manager) { m.session = session }
}

func NewManager(api CartAPI, slot store.Slot, opts ...Option) *Manager {
	m := &Manager{
		api:      api,
		slot:     slot,
		notifier: notify.Nop{},
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With(zap.String("session", m.session))
	return m
}

// Init loads the stored cart, or creates a new one when nothing valid is stored.
func (m *Manager) Init(ctx context.Context) error {
	return m.run(ctx, m.initialize)
}

func (m *Manager) initialize(ctx context.Context) error {
	log := logger.FromContext(ctx, m.log)

	storedID, err := m.slot.Load(ctx)
	switch {
	case err == nil && storedID != "":
		cart, getErr := m.api.GetCart(ctx, storedID)
		if getErr == nil {
			m.replace(cart)
			return nil
		}
		if !errors.Is(getErr, domain.ErrCartNotFound) {
			return m.initFailed(getErr)
		}
		log.Info("stored cart is gone, creating a new one", zap.String("cart_id", storedID))
		if clearErr := m.slot.Clear(ctx); clearErr != nil {
			log.Warn("failed to clear stale cart id", zap.Error(clearErr))
		}
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return m.initFailed(fmt.Errorf("load cart id: %w", err))
	}

	cart, err := m.api.CreateCart(ctx, domain.CartInput{})
	if err != nil {
		return m.initFailed(err)
	}
	if err := m.slot.Save(ctx, cart.ID); err != nil {
		log.Warn("failed to persist cart id", zap.String("cart_id", cart.ID), zap.Error(err))
	}
	m.replace(cart)
	m.record(ctx, EventCartCreated, cart)
	return nil
}

func (m *Manager) initFailed(err error) error {
	m.fail("Failed to initialize cart", err)
	return fmt.Errorf("%w: %w", ErrInitialization, err)
}

// AddItem adds quantity of a variant; zero means one. Without a cart the
// manager initializes first and gives up if that fails.
func (m *Manager) AddItem(ctx context.Context, variantID string, quantity int) error {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	return m.run(ctx, func(ctx context.Context) error {
		if m.cartID() == "" {
			if err := m.initialize(ctx); err != nil {
				return fmt.Errorf("%w: %w", ErrNoCart, err)
			}
		}
		okMsg := fmt.Sprintf("Added %d item to cart", quantity)
		if quantity > 1 {
			okMsg = fmt.Sprintf("Added %d items to cart", quantity)
		}
		return m.apply(ctx, mutation{
			event:   EventLinesAdded,
			okMsg:   okMsg,
			failMsg: "Failed to add item to cart",
			call: func(ctx context.Context, cartID string) (*domain.Cart, error) {
				return m.api.AddLines(ctx, cartID, []domain.LineInput{{MerchandiseID: variantID, Quantity: quantity}})
			},
		})
	})
}

// UpdateItem sets a line's quantity; a quantity of zero or less removes the line.
func (m *Manager) UpdateItem(ctx context.Context, lineID string, quantity int) error {
	if quantity <= 0 {
		return m.RemoveItem(ctx, lineID)
	}
	return m.run(ctx, func(ctx context.Context) error {
		return m.apply(ctx, mutation{
			event:   EventLinesUpdated,
			okMsg:   "Cart updated",
			failMsg: "Failed to update cart",
			call: func(ctx context.Context, cartID string) (*domain.Cart, error) {
				return m.api.UpdateLines(ctx, cartID, []domain.LineUpdate{{ID: lineID, Quantity: quantity}})
			},
		})
	})
}

func (m *Manager) RemoveItem(ctx context.Context, lineID string) error {
	return m.run(ctx, func(ctx context.Context) error {
		return m.apply(ctx, mutation{
			event:   EventLinesRemoved,
			okMsg:   "Item removed from cart",
			failMsg: "Failed to remove item",
			call: func(ctx context.Context, cartID string) (*domain.Cart, error) {
				return m.api.RemoveLines(ctx, cartID, []string{lineID})
			},
		})
	})
}

// ClearCart removes every line in one call. An empty cart is left alone.
func (m *Manager) ClearCart(ctx context.Context) error {
	return m.run(ctx, func(ctx context.Context) error {
		cart := m.snapshot()
		if cart != nil && len(cart.Lines) == 0 {
			return nil
		}
		return m.apply(ctx, mutation{
			event:   EventCartCleared,
			okMsg:   "Cart cleared",
			failMsg: "Failed to clear cart",
			call: func(ctx context.Context, cartID string) (*domain.Cart, error) {
				return m.api.RemoveLines(ctx, cartID, m.snapshot().LineIDs())
			},
		})
	})
}

func (m *Manager) UpdateBuyerIdentity(ctx context.Context, identity domain.BuyerIdentity) error {
	return m.run(ctx, func(ctx context.Context) error {
		return m.apply(ctx, mutation{
			event:   EventBuyerUpdated,
			okMsg:   "Buyer details updated",
			failMsg: "Failed to update buyer details",
			call: func(ctx context.Context, cartID string) (*domain.Cart, error) {
				return m.api.UpdateBuyerIdentity(ctx, cartID, identity)
			},
		})
	})
}

// ApplyDiscountCodes replaces the cart's discount codes; an empty list removes them.
func (m *Manager) ApplyDiscountCodes(ctx context.Context, codes []string) error {
	return m.run(ctx, func(ctx context.Context) error {
		return m.apply(ctx, mutation{
			event:   EventDiscountsUpdated,
			okMsg:   "Discount codes updated",
			failMsg: "Failed to apply discount code",
			call: func(ctx context.Context, cartID string) (*domain.Cart, error) {
				return m.api.UpdateDiscountCodes(ctx, cartID, codes)
			},
		})
	})
}

// Refresh re-reads the current cart. Without a cart it does nothing. A cart
// the API no longer knows is dropped along with its stored id.
func (m *Manager) Refresh(ctx context.Context) error {
	return m.run(ctx, func(ctx context.Context) error {
		cartID := m.cartID()
		if cartID == "" {
			return nil
		}
		cart, err := m.api.GetCart(ctx, cartID)
		if err != nil {
			if errors.Is(err, domain.ErrCartNotFound) {
				if clearErr := m.slot.Clear(ctx); clearErr != nil {
					m.log.Warn("failed to clear stale cart id", zap.Error(clearErr))
				}
				m.mu.Lock()
				m.state.Cart = nil
				m.mu.Unlock()
			}
			m.fail("Failed to refresh cart", err)
			return fmt.Errorf("%w: refresh: %w", ErrOperation, err)
		}
		m.replace(cart)
		return nil
	})
}

// Forget drops the snapshot and the stored id, e.g. after the cart was checked out.
func (m *Manager) Forget(ctx context.Context) error {
	return m.run(ctx, func(ctx context.Context) error {
		m.mu.Lock()
		m.state.Cart = nil
		m.state.LastError = ""
		m.mu.Unlock()
		return m.slot.Clear(ctx)
	})
}

type mutation struct {
	event   EventType
	okMsg   string
	failMsg string
	call    func(ctx context.Context, cartID string) (*domain.Cart, error)
}

// apply runs one remote mutation against the current cart and installs its result.
func (m *Manager) apply(ctx context.Context, op mutation) error {
	cartID := m.cartID()
	if cartID == "" {
		return ErrNoCart
	}
	cart, err := op.call(ctx, cartID)
	if err != nil {
		m.fail(op.failMsg, err)
		logger.FromContext(ctx, m.log).Warn(op.failMsg, zap.String("cart_id", cartID), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrOperation, err)
	}
	m.replace(cart)
	m.notifier.Notify(notify.Success, op.okMsg)
	m.record(ctx, op.event, cart)
	return nil
}

// run executes op in queue order with the loading flag raised.
func (m *Manager) run(ctx context.Context, op func(ctx context.Context) error) error {
	release, err := m.queue.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	m.setLoading(true)
	defer m.setLoading(false)
	return op(ctx)
}

func (m *Manager) replace(cart *domain.Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Cart = cart
	m.state.LastError = ""
}

func (m *Manager) fail(message string, err error) {
	var userErrs *domain.UserErrors
	if errors.As(err, &userErrs) {
		message = message + ": " + userErrs.Joined()
	}
	m.mu.Lock()
	m.state.LastError = message
	m.mu.Unlock()
	m.notifier.Notify(notify.Error, message)
}

func (m *Manager) record(ctx context.Context, typ EventType, cart *domain.Cart) {
	if m.events == nil {
		return
	}
	event := CartEvent{
		Session:   m.session,
		CartID:    cart.ID,
		Type:      typ,
		ItemCount: itemCount(cart),
		Subtotal:  cart.Cost.SubtotalAmount,
		At:        m.now().UTC(),
	}
	if err := m.events.RecordCartEvent(ctx, event); err != nil {
		logger.FromContext(ctx, m.log).Warn("failed to record cart event",
			zap.String("event_type", string(typ)), zap.Error(err))
	}
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.state.Loading = v
	m.mu.Unlock()
}

func (m *Manager) snapshot() *domain.Cart {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Cart
}

func (m *Manager) cartID() string {
	if cart := m.snapshot(); cart != nil {
		return cart.ID
	}
	return ""
}

// State returns a copy of the current state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Pending counts operations running or waiting their turn.
func (m *Manager) Pending() int {
	return m.queue.len()
}

func (m *Manager) Session() string {
	return m.session
}

func (m *Manager) CartID() string {
	return m.cartID()
}

// ItemCount sums line quantities of the current snapshot.
func (m *Manager) ItemCount() int {
	return itemCount(m.snapshot())
}

func itemCount(cart *domain.Cart) int {
	if cart == nil {
		return 0
	}
	n := 0
	for _, l := range cart.Lines {
		n += l.Quantity
	}
	return n
}

// Subtotal formats the cart subtotal, "$0.00" without a cart.
func (m *Manager) Subtotal() string {
	cart := m.snapshot()
	if cart == nil {
		return money.Zero
	}
	return money.MustFormat(cart.Cost.SubtotalAmount)
}

func (m *Manager) Total() string {
	cart := m.snapshot()
	if cart == nil {
		return money.Zero
	}
	return money.MustFormat(cart.Cost.TotalAmount)
}

func (m *Manager) IsItemInCart(variantID string) bool {
	cart := m.snapshot()
	if cart == nil {
		return false
	}
	for _, l := range cart.Lines {
		if l.Merchandise.ID == variantID {
			return true
		}
	}
	return false
}

// ItemQuantity returns the quantity on the first line holding variantID, or 0.
func (m *Manager) ItemQuantity(variantID string) int {
	cart := m.snapshot()
	if cart == nil {
		return 0
	}
	for _, l := range cart.Lines {
		if l.Merchandise.ID == variantID {
			return l.Quantity
		}
	}
	return 0
}

// CheckoutURL is where the shopper is handed off to pay.
func (m *Manager) CheckoutURL() (string, error) {
	cart := m.snapshot()
	if cart == nil || cart.CheckoutURL == "" {
		return "", ErrNoCheckout
	}
	return cart.CheckoutURL, nil
}

func (m *Manager) OpenPanel() {
	m.mu.Lock()
	m.state.PanelOpen = true
	m.mu.Unlock()
}

func (m *Manager) ClosePanel() {
	m.mu.Lock()
	m.state.PanelOpen = false
	m.mu.Unlock()
}

func (m *Manager) TogglePanel() {
	m.mu.Lock()
	m.state.PanelOpen = !m.state.PanelOpen
	m.mu.Unlock()
}
