package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

type stubAPI struct {
	mu      sync.Mutex
	carts   map[string]*domain.Cart
	creates atomic.Int32
	// createGate, when set, holds CreateCart until closed.
	createGate chan struct{}
	createErr  error
}

func newStubAPI() *stubAPI {
	return &stubAPI{carts: map[string]*domain.Cart{}}
}

func (s *stubAPI) CreateCart(context.Context, domain.CartInput) (*domain.Cart, error) {
	if s.createGate != nil {
		<-s.createGate
	}
	if s.createErr != nil {
		return nil, s.createErr
	}
	n := s.creates.Add(1)
	cart := &domain.Cart{ID: fmt.Sprintf("gid://shopify/Cart/%d", n)}
	s.mu.Lock()
	s.carts[cart.ID] = cart
	s.mu.Unlock()
	return cart, nil
}

func (s *stubAPI) GetCart(_ context.Context, id string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCartNotFound
}

func (s *stubAPI) AddLines(_ context.Context, id string, lines []domain.LineInput) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[id]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	out := *c
	for i, l := range lines {
		out.Lines = append(out.Lines, domain.CartLine{
			ID:          fmt.Sprintf("%s-line-%d", id, len(c.Lines)+i),
			Quantity:    l.Quantity,
			Merchandise: domain.Variant{ID: l.MerchandiseID},
		})
	}
	s.carts[id] = &out
	return &out, nil
}

func (s *stubAPI) UpdateLines(_ context.Context, id string, _ []domain.LineUpdate) (*domain.Cart, error) {
	return s.GetCart(context.Background(), id)
}

func (s *stubAPI) RemoveLines(_ context.Context, id string, _ []string) (*domain.Cart, error) {
	return s.GetCart(context.Background(), id)
}

func (s *stubAPI) UpdateBuyerIdentity(_ context.Context, id string, _ domain.BuyerIdentity) (*domain.Cart, error) {
	return s.GetCart(context.Background(), id)
}

func (s *stubAPI) UpdateDiscountCodes(_ context.Context, id string, _ []string) (*domain.Cart, error) {
	return s.GetCart(context.Background(), id)
}
