package domain

import (
	"errors"
	"strings"
)

var ErrCartNotFound = errors.New("cart not found")

type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type Image struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductRef is the slice of a product a cart line carries along with its variant.
type ProductRef struct {
	ID            string `json:"id"`
	Handle        string `json:"handle"`
	Title         string `json:"title"`
	FeaturedImage *Image `json:"featuredImage,omitempty"`
}

// Variant is a purchasable configuration of a product.
type Variant struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Price             Money            `json:"price"`
	CompareAtPrice    *Money           `json:"compareAtPrice,omitempty"`
	AvailableForSale  bool             `json:"availableForSale"`
	QuantityAvailable int              `json:"quantityAvailable"`
	SelectedOptions   []SelectedOption `json:"selectedOptions"`
	Image             *Image           `json:"image,omitempty"`
	Product           *ProductRef      `json:"product,omitempty"`
}

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type LineCost struct {
	TotalAmount                Money  `json:"totalAmount"`
	SubtotalAmount             Money  `json:"subtotalAmount"`
	CompareAtAmountPerQuantity *Money `json:"compareAtAmountPerQuantity,omitempty"`
}

type CartLine struct {
	ID          string      `json:"id"`
	Quantity    int         `json:"quantity"`
	Merchandise Variant     `json:"merchandise"`
	Cost        LineCost    `json:"cost"`
	Attributes  []Attribute `json:"attributes,omitempty"`
}

type CartCost struct {
	SubtotalAmount  Money  `json:"subtotalAmount"`
	TotalAmount     Money  `json:"totalAmount"`
	TotalTaxAmount  *Money `json:"totalTaxAmount,omitempty"`
	TotalDutyAmount *Money `json:"totalDutyAmount,omitempty"`
}

type BuyerIdentity struct {
	CountryCode string `json:"countryCode,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

type DiscountCode struct {
	Code       string `json:"code"`
	Applicable bool   `json:"applicable"`
}

// Cart is a snapshot of the remote cart as last returned by the Storefront API.
// A snapshot is never edited in place; every successful call replaces it.
type Cart struct {
	ID            string         `json:"id"`
	CheckoutURL   string         `json:"checkoutUrl"`
	TotalQuantity int            `json:"totalQuantity"`
	Lines         []CartLine     `json:"lines"`
	Cost          CartCost       `json:"cost"`
	BuyerIdentity BuyerIdentity  `json:"buyerIdentity"`
	DiscountCodes []DiscountCode `json:"discountCodes,omitempty"`
	Attributes    []Attribute    `json:"attributes,omitempty"`
	CreatedAt     string         `json:"createdAt,omitempty"`
	UpdatedAt     string         `json:"updatedAt,omitempty"`
}

// LineIDs returns the identifiers of every line in order.
func (c *Cart) LineIDs() []string {
	ids := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		ids = append(ids, l.ID)
	}
	return ids
}

// CartInput is the payload of cartCreate.
type CartInput struct {
	Lines         []LineInput    `json:"lines,omitempty"`
	Attributes    []Attribute    `json:"attributes,omitempty"`
	BuyerIdentity *BuyerIdentity `json:"buyerIdentity,omitempty"`
}

type LineInput struct {
	MerchandiseID string      `json:"merchandiseId"`
	Quantity      int         `json:"quantity"`
	Attributes    []Attribute `json:"attributes,omitempty"`
}

type LineUpdate struct {
	ID         string      `json:"id"`
	Quantity   int         `json:"quantity"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// UserErrors is returned when a mutation was rejected as a whole.
type UserErrors struct {
	Operation string
	Errors    []UserError
}

func (e *UserErrors) Error() string {
	return e.Operation + " failed: " + e.Joined()
}

// Joined returns the messages separated by ", ".
func (e *UserErrors) Joined() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ue := range e.Errors {
		msgs = append(msgs, ue.Message)
	}
	return strings.Join(msgs, ", ")
}
