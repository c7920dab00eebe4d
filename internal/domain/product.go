package domain

import "time"

// ============================================================
// Catalog — product types mirroring the Shopify Storefront API
// ============================================================

// Money is a decimal amount with its currency code, kept as a string
// exactly as Shopify reports it ("349.00", "EUR").
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// PriceRange spans the cheapest and most expensive variant of a product.
// Min == Max for single-price products.
type PriceRange struct {
	Min Money `json:"minVariantPrice"`
	Max Money `json:"maxVariantPrice"`
}

// Variant is one purchasable option of a product (a color or size choice).
// Single-variant products carry exactly one variant titled "Default Title" —
// that is how Shopify reports them and we keep it as-is; the composer knows
// not to present it as a real label.
type Variant struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Price            Money  `json:"price"`
	AvailableForSale bool   `json:"availableForSale"`
}

// Product is one item of the merchant catalog. Instances are immutable once
// built: every catalog refresh produces a wholly new slice, never an in-place
// edit of an old one.
type Product struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DescriptionHTML string     `json:"descriptionHtml,omitempty"`
	Handle          string     `json:"handle"`
	ProductType     string     `json:"productType,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	PriceRange      PriceRange `json:"priceRange"`
	Variants        []Variant  `json:"variants,omitempty"`
	Images          []string   `json:"images,omitempty"`
}

// AvailableVariants returns the variants currently purchasable.
func (p *Product) AvailableVariants() []Variant {
	var out []Variant
	for _, v := range p.Variants {
		if v.AvailableForSale {
			out = append(out, v)
		}
	}
	return out
}

// SoldOutVariants returns the variants currently not purchasable.
func (p *Product) SoldOutVariants() []Variant {
	var out []Variant
	for _, v := range p.Variants {
		if !v.AvailableForSale {
			out = append(out, v)
		}
	}
	return out
}

// CatalogSnapshot is the full product collection held by the cache at a
// point in time, plus when it was fetched.
type CatalogSnapshot struct {
	Products  []Product `json:"products"`
	FetchedAt time.Time `json:"fetchedAt"`
}
