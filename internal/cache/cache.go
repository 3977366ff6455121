package cache

import (
	"context"
	"errors"
	"time"
)

// Kind selects the TTL an entry is stored with.
type Kind string

const (
	KindProducts    Kind = "products"
	KindCollections Kind = "collections"
	KindShop        Kind = "shop"
)

// DefaultTTLs mirror how often the storefront catalog changes.
var DefaultTTLs = map[Kind]time.Duration{
	KindProducts:    5 * time.Minute,
	KindCollections: time.Hour,
	KindShop:        time.Hour,
}

// CatalogCache stores JSON-encodable catalog responses.
type CatalogCache interface {
	// Get decodes the entry stored at key into dst or returns ErrCacheMiss.
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, kind Kind, key string, value any) error
	Delete(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, any) error       { return ErrCacheMiss }
func (Nop) Set(context.Context, Kind, string, any) error { return nil }
func (Nop) Delete(context.Context, string) error         { return nil }
