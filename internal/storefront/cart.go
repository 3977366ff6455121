package storefront

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

// GetCart fetches a cart by id. A null cart, or an id the API refuses to
// parse, is reported as domain.ErrCartNotFound.
func (c *Client) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	var resp struct {
		Cart *cartNode `json:"cart"`
	}
	err := c.do(ctx, "GetCart", getCartQuery, map[string]any{"id": cartID}, &resp)
	var gqlErr *GraphQLError
	if errors.As(err, &gqlErr) && gqlErr.InvalidID() {
		return nil, fmt.Errorf("%w: %v", domain.ErrCartNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	if resp.Cart == nil {
		return nil, domain.ErrCartNotFound
	}
	return resp.Cart.toDomain(), nil
}

func (c *Client) CreateCart(ctx context.Context, input domain.CartInput) (*domain.Cart, error) {
	return c.mutate(ctx, "Cart creation", "cartCreate", createCartMutation, map[string]any{
		"input": input,
	})
}

func (c *Client) AddLines(ctx context.Context, cartID string, lines []domain.LineInput) (*domain.Cart, error) {
	return c.mutate(ctx, "Add to cart", "cartLinesAdd", addLinesMutation, map[string]any{
		"cartId": cartID,
		"lines":  lines,
	})
}

func (c *Client) UpdateLines(ctx context.Context, cartID string, lines []domain.LineUpdate) (*domain.Cart, error) {
	return c.mutate(ctx, "Cart update", "cartLinesUpdate", updateLinesMutation, map[string]any{
		"cartId": cartID,
		"lines":  lines,
	})
}

func (c *Client) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	return c.mutate(ctx, "Remove from cart", "cartLinesRemove", removeLinesMutation, map[string]any{
		"cartId":  cartID,
		"lineIds": lineIDs,
	})
}

func (c *Client) UpdateBuyerIdentity(ctx context.Context, cartID string, identity domain.BuyerIdentity) (*domain.Cart, error) {
	return c.mutate(ctx, "Buyer identity update", "cartBuyerIdentityUpdate", updateBuyerIdentityMutation, map[string]any{
		"cartId":        cartID,
		"buyerIdentity": identity,
	})
}

func (c *Client) UpdateDiscountCodes(ctx context.Context, cartID string, codes []string) (*domain.Cart, error) {
	if codes == nil {
		codes = []string{}
	}
	return c.mutate(ctx, "Discount code application", "cartDiscountCodesUpdate", updateDiscountCodesMutation, map[string]any{
		"cartId":        cartID,
		"discountCodes": codes,
	})
}

// mutate runs a cart mutation whose payload sits under field. Any user error
// rejects the whole call; the cart is then treated as unchanged.
func (c *Client) mutate(ctx context.Context, operation, field, query string, vars map[string]any) (*domain.Cart, error) {
	var resp map[string]cartPayload
	if err := c.do(ctx, operation, query, vars, &resp); err != nil {
		return nil, err
	}
	payload, ok := resp[field]
	if !ok {
		return nil, fmt.Errorf("%s: %q missing: %w", operation, field, ErrEmptyResponse)
	}
	if len(payload.UserErrors) > 0 {
		return nil, &domain.UserErrors{Operation: operation, Errors: payload.UserErrors}
	}
	if payload.Cart == nil {
		return nil, fmt.Errorf("%s: %w", operation, domain.ErrCartNotFound)
	}
	return payload.Cart.toDomain(), nil
}
