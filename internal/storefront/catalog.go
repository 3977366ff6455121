package storefront

import (
	"context"
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

const defaultPageSize = 20

func pageSize(first int) int {
	if first <= 0 || first > 250 {
		return defaultPageSize
	}
	return first
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (c *Client) Products(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	sortKey := q.SortKey
	if sortKey == "" {
		sortKey = "BEST_SELLING"
	}
	var resp struct {
		Products connection[productNode] `json:"products"`
	}
	err := c.do(ctx, "GetProducts", getProductsQuery, map[string]any{
		"first":   pageSize(q.First),
		"after":   optional(q.After),
		"query":   optional(q.Query),
		"sortKey": sortKey,
		"reverse": q.Reverse,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &domain.ProductPage{
		Products: productsOf(resp.Products.nodes()),
		PageInfo: resp.Products.PageInfo,
	}, nil
}

func (c *Client) Product(ctx context.Context, handle string) (*domain.Product, error) {
	var resp struct {
		Product *productNode `json:"product"`
	}
	if err := c.do(ctx, "GetProduct", getProductQuery, map[string]any{"handle": handle}, &resp); err != nil {
		return nil, err
	}
	if resp.Product == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, handle)
	}
	p := resp.Product.toDomain()
	return &p, nil
}

func (c *Client) ProductRecommendations(ctx context.Context, productID string) ([]domain.Product, error) {
	var resp struct {
		ProductRecommendations []productNode `json:"productRecommendations"`
	}
	err := c.do(ctx, "GetProductRecommendations", getProductRecommendationsQuery, map[string]any{
		"productId": productID,
		"intent":    "RELATED",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return productsOf(resp.ProductRecommendations), nil
}

func (c *Client) SearchProducts(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	sortKey := q.SortKey
	if sortKey == "" {
		sortKey = "RELEVANCE"
	}
	var resp struct {
		Search connection[productNode] `json:"search"`
	}
	err := c.do(ctx, "SearchProducts", searchProductsQuery, map[string]any{
		"query":   q.Query,
		"first":   pageSize(q.First),
		"after":   optional(q.After),
		"sortKey": sortKey,
		"reverse": q.Reverse,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &domain.ProductPage{
		Products: productsOf(resp.Search.nodes()),
		PageInfo: resp.Search.PageInfo,
	}, nil
}

func (c *Client) Collections(ctx context.Context, first int, after string) (*domain.CollectionPage, error) {
	var resp struct {
		Collections connection[collectionNode] `json:"collections"`
	}
	err := c.do(ctx, "GetCollections", getCollectionsQuery, map[string]any{
		"first": pageSize(first),
		"after": optional(after),
	}, &resp)
	if err != nil {
		return nil, err
	}
	nodes := resp.Collections.nodes()
	out := make([]domain.Collection, 0, len(nodes))
	for i := range nodes {
		out = append(out, nodes[i].toDomain())
	}
	return &domain.CollectionPage{Collections: out, PageInfo: resp.Collections.PageInfo}, nil
}

func (c *Client) CollectionProducts(ctx context.Context, handle string, q domain.ProductQuery) (*domain.Collection, error) {
	sortKey := q.SortKey
	if sortKey == "" {
		sortKey = "CREATED"
	}
	var resp struct {
		Collection *collectionNode `json:"collection"`
	}
	err := c.do(ctx, "GetCollectionProducts", getCollectionProductsQuery, map[string]any{
		"handle":  handle,
		"first":   pageSize(q.First),
		"after":   optional(q.After),
		"sortKey": sortKey,
		"reverse": q.Reverse,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Collection == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, handle)
	}
	col := resp.Collection.toDomain()
	return &col, nil
}

func (c *Client) Shop(ctx context.Context) (*domain.Shop, error) {
	var resp struct {
		Shop *shopNode `json:"shop"`
	}
	if err := c.do(ctx, "GetShopInfo", getShopQuery, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Shop == nil {
		return nil, fmt.Errorf("GetShopInfo: %w", ErrEmptyResponse)
	}
	return resp.Shop.toDomain(), nil
}
