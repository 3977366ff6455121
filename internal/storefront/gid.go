package storefront

import "strings"

const gidPrefix = "gid://shopify/"

// ShopifyID returns the trailing numeric part of a global id.
func ShopifyID(gid string) string {
	if i := strings.LastIndexByte(gid, '/'); i >= 0 && i < len(gid)-1 {
		return gid[i+1:]
	}
	return gid
}

// GID builds a global id such as gid://shopify/ProductVariant/42.
func GID(kind, id string) string {
	return gidPrefix + kind + "/" + id
}
