package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/store"
)

// fakeAPI keeps carts in memory and behaves like the remote API: each call
// returns the whole updated cart.
type fakeAPI struct {
	mu     sync.Mutex
	carts  map[string]*domain.Cart
	nextID int
	nextLn int

	// err, when set, fails every call.
	err error
	// getErr, when set, fails GetCart only.
	getErr error
	// addGate, when set, blocks AddLines after the lines were applied.
	addGate chan struct{}

	creates     int
	removeCalls [][]string
	calls       []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{carts: map[string]*domain.Cart{}}
}

func (f *fakeAPI) CreateCart(_ context.Context, input domain.CartInput) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create")
	if f.err != nil {
		return nil, f.err
	}
	f.creates++
	f.nextID++
	id := fmt.Sprintf("gid://shopify/Cart/c%d", f.nextID)
	cart := &domain.Cart{ID: id, CheckoutURL: "https://shop.example/checkouts/" + strconv.Itoa(f.nextID)}
	f.carts[id] = cart
	for _, l := range input.Lines {
		f.addLocked(cart, l)
	}
	return f.snapshotLocked(cart), nil
}

func (f *fakeAPI) GetCart(_ context.Context, cartID string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "get")
	if f.err != nil {
		return nil, f.err
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	cart, ok := f.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return f.snapshotLocked(cart), nil
}

func (f *fakeAPI) AddLines(_ context.Context, cartID string, lines []domain.LineInput) (*domain.Cart, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "add")
	if f.err != nil {
		f.mu.Unlock()
		return nil, f.err
	}
	cart, ok := f.carts[cartID]
	if !ok {
		f.mu.Unlock()
		return nil, domain.ErrCartNotFound
	}
	for _, l := range lines {
		f.addLocked(cart, l)
	}
	out := f.snapshotLocked(cart)
	gate := f.addGate
	f.addGate = nil
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return out, nil
}

func (f *fakeAPI) UpdateLines(_ context.Context, cartID string, lines []domain.LineUpdate) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "update")
	if f.err != nil {
		return nil, f.err
	}
	cart, ok := f.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	for _, u := range lines {
		for i := range cart.Lines {
			if cart.Lines[i].ID == u.ID {
				cart.Lines[i].Quantity = u.Quantity
			}
		}
	}
	return f.snapshotLocked(cart), nil
}

func (f *fakeAPI) RemoveLines(_ context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "remove")
	f.removeCalls = append(f.removeCalls, append([]string(nil), lineIDs...))
	if f.err != nil {
		return nil, f.err
	}
	cart, ok := f.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	drop := map[string]bool{}
	for _, id := range lineIDs {
		drop[id] = true
	}
	kept := cart.Lines[:0]
	for _, l := range cart.Lines {
		if !drop[l.ID] {
			kept = append(kept, l)
		}
	}
	cart.Lines = kept
	return f.snapshotLocked(cart), nil
}

func (f *fakeAPI) UpdateBuyerIdentity(_ context.Context, cartID string, identity domain.BuyerIdentity) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "buyer")
	if f.err != nil {
		return nil, f.err
	}
	cart, ok := f.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	cart.BuyerIdentity = identity
	return f.snapshotLocked(cart), nil
}

func (f *fakeAPI) UpdateDiscountCodes(_ context.Context, cartID string, codes []string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "discounts")
	if f.err != nil {
		return nil, f.err
	}
	cart, ok := f.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	cart.DiscountCodes = nil
	for _, c := range codes {
		cart.DiscountCodes = append(cart.DiscountCodes, domain.DiscountCode{Code: c, Applicable: true})
	}
	return f.snapshotLocked(cart), nil
}

func (f *fakeAPI) addLocked(cart *domain.Cart, in domain.LineInput) {
	for i := range cart.Lines {
		if cart.Lines[i].Merchandise.ID == in.MerchandiseID {
			cart.Lines[i].Quantity += in.Quantity
			return
		}
	}
	f.nextLn++
	cart.Lines = append(cart.Lines, domain.CartLine{
		ID:          fmt.Sprintf("gid://shopify/CartLine/l%d", f.nextLn),
		Quantity:    in.Quantity,
		Merchandise: domain.Variant{ID: in.MerchandiseID},
	})
}

// snapshotLocked copies cart and recomputes its totals at $10 per unit.
func (f *fakeAPI) snapshotLocked(cart *domain.Cart) *domain.Cart {
	out := *cart
	out.Lines = append([]domain.CartLine(nil), cart.Lines...)
	qty := 0
	for _, l := range out.Lines {
		qty += l.Quantity
	}
	out.TotalQuantity = qty
	amount := fmt.Sprintf("%d.00", qty*10)
	out.Cost = domain.CartCost{
		SubtotalAmount: domain.Money{Amount: amount, CurrencyCode: "USD"},
		TotalAmount:    domain.Money{Amount: amount, CurrencyCode: "USD"},
	}
	return &out
}

func (f *fakeAPI) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates
}

func (f *fakeAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) setGetErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getErr = err
}

func (f *fakeAPI) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeAPI) dropCart(id string) {
	f.mu.Lock()
	delete(f.carts, id)
	f.mu.Unlock()
}

type mockSink struct {
	mu     sync.Mutex
	events []CartEvent
	err    error
}

func (s *mockSink) RecordCartEvent(_ context.Context, e CartEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *mockSink) types() []EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

// failingSlot fails every store call with err.
type failingSlot struct{ err error }

func (s failingSlot) Load(context.Context) (string, error) { return "", s.err }
func (s failingSlot) Save(context.Context, string) error   { return s.err }
func (s failingSlot) Clear(context.Context) error          { return s.err }

var _ store.Slot = failingSlot{}
