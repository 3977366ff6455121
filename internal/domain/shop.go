package domain

type ShopDomain struct {
	URL  string `json:"url"`
	Host string `json:"host"`
}

type ShopBrand struct {
	Logo       *Image `json:"logo,omitempty"`
	SquareLogo *Image `json:"squareLogo,omitempty"`
}

type PaymentSettings struct {
	AcceptedCardBrands      []string `json:"acceptedCardBrands"`
	CountryCode             string   `json:"countryCode"`
	CurrencyCode            string   `json:"currencyCode"`
	SupportedDigitalWallets []string `json:"supportedDigitalWallets"`
}

// Shop is the storefront-wide information used by page headers and footers.
type Shop struct {
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	PrimaryDomain   ShopDomain       `json:"primaryDomain"`
	Brand           *ShopBrand       `json:"brand,omitempty"`
	PaymentSettings *PaymentSettings `json:"paymentSettings,omitempty"`
}
