package domain

import "errors"

type PriceRange struct {
	MinVariantPrice Money `json:"minVariantPrice"`
	MaxVariantPrice Money `json:"maxVariantPrice"`
}

type ProductOption struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type SEO struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type Product struct {
	ID                  string          `json:"id"`
	Handle              string          `json:"handle"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	DescriptionHTML     string          `json:"descriptionHtml"`
	Tags                []string        `json:"tags"`
	Vendor              string          `json:"vendor"`
	ProductType         string          `json:"productType"`
	AvailableForSale    bool            `json:"availableForSale"`
	FeaturedImage       *Image          `json:"featuredImage,omitempty"`
	Images              []Image         `json:"images"`
	Variants            []Variant       `json:"variants"`
	PriceRange          PriceRange      `json:"priceRange"`
	CompareAtPriceRange PriceRange      `json:"compareAtPriceRange"`
	Options             []ProductOption `json:"options"`
	SEO                 SEO             `json:"seo"`
	CreatedAt           string          `json:"createdAt,omitempty"`
	UpdatedAt           string          `json:"updatedAt,omitempty"`
	PublishedAt         string          `json:"publishedAt,omitempty"`
}

// FirstAvailableVariant returns the first variant that can be bought, or nil.
func (p *Product) FirstAvailableVariant() *Variant {
	for i := range p.Variants {
		if p.Variants[i].AvailableForSale {
			return &p.Variants[i]
		}
	}
	return nil
}

// VariantFor returns the variant whose selected options all match.
func (p *Product) VariantFor(selected map[string]string) *Variant {
	for i := range p.Variants {
		match := true
		for _, o := range p.Variants[i].SelectedOptions {
			if selected[o.Name] != o.Value {
				match = false
				break
			}
		}
		if match {
			return &p.Variants[i]
		}
	}
	return nil
}

// InStock reports whether any variant is available with stock on hand.
func (p *Product) InStock() bool {
	if !p.AvailableForSale {
		return false
	}
	for _, v := range p.Variants {
		if v.AvailableForSale && v.QuantityAvailable > 0 {
			return true
		}
	}
	return false
}

type Collection struct {
	ID              string    `json:"id"`
	Handle          string    `json:"handle"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DescriptionHTML string    `json:"descriptionHtml"`
	Image           *Image    `json:"image,omitempty"`
	SEO             SEO       `json:"seo"`
	Products        []Product `json:"products,omitempty"`
	CreatedAt       string    `json:"createdAt,omitempty"`
	UpdatedAt       string    `json:"updatedAt,omitempty"`
}

type PageInfo struct {
	HasNextPage     bool   `json:"hasNextPage"`
	HasPreviousPage bool   `json:"hasPreviousPage"`
	StartCursor     string `json:"startCursor,omitempty"`
	EndCursor       string `json:"endCursor,omitempty"`
}

type ProductPage struct {
	Products []Product `json:"products"`
	PageInfo PageInfo  `json:"pageInfo"`
}

type CollectionPage struct {
	Collections []Collection `json:"collections"`
	PageInfo    PageInfo     `json:"pageInfo"`
}

// ProductQuery pages through products; empty SortKey means the API default.
type ProductQuery struct {
	First   int
	After   string
	Query   string
	SortKey string
	Reverse bool
}

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCollectionNotFound = errors.New("collection not found")
)
