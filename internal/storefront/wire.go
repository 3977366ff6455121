package storefront

import "github.com/fjod/go_cart/storefront/internal/domain"

// connection is the Relay edges/node list shape used throughout the API.
type connection[T any] struct {
	Edges []struct {
		Node T `json:"node"`
	} `json:"edges"`
	PageInfo domain.PageInfo `json:"pageInfo"`
}

func (c connection[T]) nodes() []T {
	out := make([]T, 0, len(c.Edges))
	for _, e := range c.Edges {
		out = append(out, e.Node)
	}
	return out
}

type cartNode struct {
	ID            string                      `json:"id"`
	CheckoutURL   string                      `json:"checkoutUrl"`
	TotalQuantity int                         `json:"totalQuantity"`
	Lines         connection[domain.CartLine] `json:"lines"`
	Cost          domain.CartCost             `json:"cost"`
	BuyerIdentity domain.BuyerIdentity        `json:"buyerIdentity"`
	DiscountCodes []domain.DiscountCode       `json:"discountCodes"`
	Attributes    []domain.Attribute          `json:"attributes"`
	CreatedAt     string                      `json:"createdAt"`
	UpdatedAt     string                      `json:"updatedAt"`
}

func (n *cartNode) toDomain() *domain.Cart {
	return &domain.Cart{
		ID:            n.ID,
		CheckoutURL:   n.CheckoutURL,
		TotalQuantity: n.TotalQuantity,
		Lines:         n.Lines.nodes(),
		Cost:          n.Cost,
		BuyerIdentity: n.BuyerIdentity,
		DiscountCodes: n.DiscountCodes,
		Attributes:    n.Attributes,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

type cartPayload struct {
	Cart       *cartNode          `json:"cart"`
	UserErrors []domain.UserError `json:"userErrors"`
}

type productNode struct {
	ID                  string                     `json:"id"`
	Handle              string                     `json:"handle"`
	Title               string                     `json:"title"`
	Description         string                     `json:"description"`
	DescriptionHTML     string                     `json:"descriptionHtml"`
	Tags                []string                   `json:"tags"`
	Vendor              string                     `json:"vendor"`
	ProductType         string                     `json:"productType"`
	AvailableForSale    bool                       `json:"availableForSale"`
	FeaturedImage       *domain.Image              `json:"featuredImage"`
	Images              connection[domain.Image]   `json:"images"`
	Variants            connection[domain.Variant] `json:"variants"`
	PriceRange          domain.PriceRange          `json:"priceRange"`
	CompareAtPriceRange domain.PriceRange          `json:"compareAtPriceRange"`
	Options             []domain.ProductOption     `json:"options"`
	SEO                 domain.SEO                 `json:"seo"`
	CreatedAt           string                     `json:"createdAt"`
	UpdatedAt           string                     `json:"updatedAt"`
	PublishedAt         string                     `json:"publishedAt"`
}

func (n *productNode) toDomain() domain.Product {
	return domain.Product{
		ID:                  n.ID,
		Handle:              n.Handle,
		Title:               n.Title,
		Description:         n.Description,
		DescriptionHTML:     n.DescriptionHTML,
		Tags:                n.Tags,
		Vendor:              n.Vendor,
		ProductType:         n.ProductType,
		AvailableForSale:    n.AvailableForSale,
		FeaturedImage:       n.FeaturedImage,
		Images:              n.Images.nodes(),
		Variants:            n.Variants.nodes(),
		PriceRange:          n.PriceRange,
		CompareAtPriceRange: n.CompareAtPriceRange,
		Options:             n.Options,
		SEO:                 n.SEO,
		CreatedAt:           n.CreatedAt,
		UpdatedAt:           n.UpdatedAt,
		PublishedAt:         n.PublishedAt,
	}
}

func productsOf(nodes []productNode) []domain.Product {
	out := make([]domain.Product, 0, len(nodes))
	for i := range nodes {
		out = append(out, nodes[i].toDomain())
	}
	return out
}

type collectionNode struct {
	ID              string                  `json:"id"`
	Handle          string                  `json:"handle"`
	Title           string                  `json:"title"`
	Description     string                  `json:"description"`
	DescriptionHTML string                  `json:"descriptionHtml"`
	Image           *domain.Image           `json:"image"`
	SEO             domain.SEO              `json:"seo"`
	Products        connection[productNode] `json:"products"`
	UpdatedAt       string                  `json:"updatedAt"`
}

func (n *collectionNode) toDomain() domain.Collection {
	return domain.Collection{
		ID:              n.ID,
		Handle:          n.Handle,
		Title:           n.Title,
		Description:     n.Description,
		DescriptionHTML: n.DescriptionHTML,
		Image:           n.Image,
		SEO:             n.SEO,
		Products:        productsOf(n.Products.nodes()),
		UpdatedAt:       n.UpdatedAt,
	}
}

type mediaImage struct {
	Image *domain.Image `json:"image"`
}

type brandNode struct {
	Logo       *mediaImage `json:"logo"`
	SquareLogo *mediaImage `json:"squareLogo"`
}

type shopNode struct {
	Name            string                  `json:"name"`
	Description     string                  `json:"description"`
	PrimaryDomain   domain.ShopDomain       `json:"primaryDomain"`
	Brand           *brandNode              `json:"brand"`
	PaymentSettings *domain.PaymentSettings `json:"paymentSettings"`
}

func (m *mediaImage) image() *domain.Image {
	if m == nil {
		return nil
	}
	return m.Image
}

func (n *shopNode) toDomain() *domain.Shop {
	shop := &domain.Shop{
		Name:            n.Name,
		Description:     n.Description,
		PrimaryDomain:   n.PrimaryDomain,
		PaymentSettings: n.PaymentSettings,
	}
	if n.Brand != nil {
		shop.Brand = &domain.ShopBrand{
			Logo:       n.Brand.Logo.image(),
			SquareLogo: n.Brand.SquareLogo.image(),
		}
	}
	return shop
}
