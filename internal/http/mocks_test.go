package http

import (
	"context"
	"fmt"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// fakeCartAPI keeps carts in memory; each call returns the updated cart.
type fakeCartAPI struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
	n     int
	err   error
}

func newFakeCartAPI() *fakeCartAPI {
	return &fakeCartAPI{carts: map[string]*domain.Cart{}}
}

func (f *fakeCartAPI) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeCartAPI) CreateCart(context.Context, domain.CartInput) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.n++
	c := &domain.Cart{
		ID:          fmt.Sprintf("gid://shopify/Cart/%d", f.n),
		CheckoutURL: fmt.Sprintf("https://shop.example/checkouts/%d", f.n),
		Cost: domain.CartCost{
			SubtotalAmount: domain.Money{Amount: "0.0", CurrencyCode: "USD"},
			TotalAmount:    domain.Money{Amount: "0.0", CurrencyCode: "USD"},
		},
	}
	f.carts[c.ID] = c
	return f.copy(c), nil
}

func (f *fakeCartAPI) GetCart(_ context.Context, id string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.carts[id]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return f.copy(c), nil
}

func (f *fakeCartAPI) AddLines(_ context.Context, id string, lines []domain.LineInput) (*domain.Cart, error) {
	return f.change(id, func(c *domain.Cart) {
		for _, l := range lines {
			c.Lines = append(c.Lines, domain.CartLine{
				ID:          fmt.Sprintf("gid://shopify/CartLine/%d", len(c.Lines)+1),
				Quantity:    l.Quantity,
				Merchandise: domain.Variant{ID: l.MerchandiseID},
			})
		}
	})
}

func (f *fakeCartAPI) UpdateLines(_ context.Context, id string, lines []domain.LineUpdate) (*domain.Cart, error) {
	return f.change(id, func(c *domain.Cart) {
		for _, u := range lines {
			for i := range c.Lines {
				if c.Lines[i].ID == u.ID {
					c.Lines[i].Quantity = u.Quantity
				}
			}
		}
	})
}

func (f *fakeCartAPI) RemoveLines(_ context.Context, id string, lineIDs []string) (*domain.Cart, error) {
	return f.change(id, func(c *domain.Cart) {
		var kept []domain.CartLine
		for _, l := range c.Lines {
			drop := false
			for _, id := range lineIDs {
				if l.ID == id {
					drop = true
				}
			}
			if !drop {
				kept = append(kept, l)
			}
		}
		c.Lines = kept
	})
}

func (f *fakeCartAPI) UpdateBuyerIdentity(_ context.Context, id string, identity domain.BuyerIdentity) (*domain.Cart, error) {
	return f.change(id, func(c *domain.Cart) { c.BuyerIdentity = identity })
}

func (f *fakeCartAPI) UpdateDiscountCodes(_ context.Context, id string, codes []string) (*domain.Cart, error) {
	return f.change(id, func(c *domain.Cart) {
		c.DiscountCodes = nil
		for _, code := range codes {
			c.DiscountCodes = append(c.DiscountCodes, domain.DiscountCode{Code: code})
		}
	})
}

func (f *fakeCartAPI) change(id string, apply func(*domain.Cart)) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.carts[id]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	apply(c)
	qty := 0
	for _, l := range c.Lines {
		qty += l.Quantity
	}
	c.TotalQuantity = qty
	amount := fmt.Sprintf("%d.00", qty*15)
	c.Cost.SubtotalAmount.Amount = amount
	c.Cost.TotalAmount.Amount = amount
	return f.copy(c), nil
}

func (f *fakeCartAPI) copy(c *domain.Cart) *domain.Cart {
	out := *c
	out.Lines = append([]domain.CartLine(nil), c.Lines...)
	return &out
}

type mockCatalog struct {
	mu        sync.Mutex
	products  []domain.Product
	lastQuery domain.ProductQuery
	err       error
}

func (m *mockCatalog) record(q domain.ProductQuery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = q
	return m.err
}

func (m *mockCatalog) query() domain.ProductQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastQuery
}

func (m *mockCatalog) setErr(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

func (m *mockCatalog) Products(_ context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	if err := m.record(q); err != nil {
		return nil, err
	}
	return &domain.ProductPage{Products: m.products}, nil
}

func (m *mockCatalog) Product(_ context.Context, handle string) (*domain.Product, error) {
	if err := m.record(domain.ProductQuery{}); err != nil {
		return nil, err
	}
	for i := range m.products {
		if m.products[i].Handle == handle {
			return &m.products[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, handle)
}

func (m *mockCatalog) ProductRecommendations(ctx context.Context, handle string) ([]domain.Product, error) {
	if _, err := m.Product(ctx, handle); err != nil {
		return nil, err
	}
	return nil, nil
}

func (m *mockCatalog) SearchProducts(_ context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	if err := m.record(q); err != nil {
		return nil, err
	}
	return &domain.ProductPage{Products: m.products}, nil
}

func (m *mockCatalog) Collections(_ context.Context, first int, after string) (*domain.CollectionPage, error) {
	if err := m.record(domain.ProductQuery{First: first, After: after}); err != nil {
		return nil, err
	}
	return &domain.CollectionPage{Collections: []domain.Collection{{Handle: "summer", Title: "Summer"}}}, nil
}

func (m *mockCatalog) CollectionProducts(_ context.Context, handle string, q domain.ProductQuery) (*domain.Collection, error) {
	if err := m.record(q); err != nil {
		return nil, err
	}
	if handle != "summer" {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, handle)
	}
	return &domain.Collection{Handle: handle, Products: m.products}, nil
}

func (m *mockCatalog) Shop(context.Context) (*domain.Shop, error) {
	if err := m.record(domain.ProductQuery{}); err != nil {
		return nil, err
	}
	return &domain.Shop{Name: "Demo", PrimaryDomain: domain.ShopDomain{Host: "demo.example"}}, nil
}
