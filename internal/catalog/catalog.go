// Package catalog serves storefront catalog reads through a cache.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Source is the remote catalog.
type Source interface {
	Products(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error)
	Product(ctx context.Context, handle string) (*domain.Product, error)
	ProductRecommendations(ctx context.Context, productID string) ([]domain.Product, error)
	SearchProducts(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error)
	Collections(ctx context.Context, first int, after string) (*domain.CollectionPage, error)
	CollectionProducts(ctx context.Context, handle string, q domain.ProductQuery) (*domain.Collection, error)
	Shop(ctx context.Context) (*domain.Shop, error)
}

type Service struct {
	source Source
	cache  cache.CatalogCache
	log    *zap.Logger
	sfg    singleflight.Group // Prevents cache stampede
}

func NewService(source Source, c cache.CatalogCache, log *zap.Logger) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{source: source, cache: c, log: log}
}

func (s *Service) Products(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	return cached(ctx, s, cache.KindProducts, "products:"+queryKey(q), func(ctx context.Context) (*domain.ProductPage, error) {
		return s.source.Products(ctx, q)
	})
}

func (s *Service) Product(ctx context.Context, handle string) (*domain.Product, error) {
	return cached(ctx, s, cache.KindProducts, "product:"+handle, func(ctx context.Context) (*domain.Product, error) {
		return s.source.Product(ctx, handle)
	})
}

// ProductRecommendations resolves handle first since recommendations are keyed by product id.
func (s *Service) ProductRecommendations(ctx context.Context, handle string) ([]domain.Product, error) {
	product, err := s.Product(ctx, handle)
	if err != nil {
		return nil, err
	}
	recs, err := cached(ctx, s, cache.KindProducts, "recommendations:"+product.ID, func(ctx context.Context) (*[]domain.Product, error) {
		out, err := s.source.ProductRecommendations(ctx, product.ID)
		if err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		return nil, err
	}
	return *recs, nil
}

// SearchProducts is never cached; queries are too varied to be worth it.
func (s *Service) SearchProducts(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error) {
	if q.Query == "" {
		return &domain.ProductPage{}, nil
	}
	return s.source.SearchProducts(ctx, q)
}

func (s *Service) Collections(ctx context.Context, first int, after string) (*domain.CollectionPage, error) {
	key := fmt.Sprintf("collections:%d:%s", first, after)
	return cached(ctx, s, cache.KindCollections, key, func(ctx context.Context) (*domain.CollectionPage, error) {
		return s.source.Collections(ctx, first, after)
	})
}

func (s *Service) CollectionProducts(ctx context.Context, handle string, q domain.ProductQuery) (*domain.Collection, error) {
	key := "collection:" + handle + ":" + queryKey(q)
	return cached(ctx, s, cache.KindCollections, key, func(ctx context.Context) (*domain.Collection, error) {
		return s.source.CollectionProducts(ctx, handle, q)
	})
}

func (s *Service) Shop(ctx context.Context) (*domain.Shop, error) {
	return cached(ctx, s, cache.KindShop, "shop", s.source.Shop)
}

// cached is a read-through lookup. Cache failures are logged and bypassed;
// only a source error fails the call.
func cached[T any](ctx context.Context, s *Service, kind cache.Kind, key string, load func(context.Context) (*T, error)) (*T, error) {
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		var hit T
		err := s.cache.Get(ctx, key, &hit)
		if err == nil {
			return &hit, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("catalog cache get failed", zap.String("key", key), zap.Error(err))
		}

		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, kind, key, value); err != nil {
			s.log.Warn("catalog cache set failed", zap.String("key", key), zap.Error(err))
		}
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

func queryKey(q domain.ProductQuery) string {
	return strconv.Itoa(q.First) + ":" + q.After + ":" + q.SortKey + ":" + strconv.FormatBool(q.Reverse) + ":" + q.Query
}
