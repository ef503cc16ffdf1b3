// Package model defines the domain types shared across the storefront core:
// catalog records, cart items, money handling, and the error taxonomy.
package model

// Money is an amount in a single currency as the catalog reports it.
// Amount is kept as the remote's decimal string; use ParseAmount for math.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Image is a product image with optional alt text.
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

// SelectedOption is a single option choice on a variant (e.g., Size: Large).
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductOption describes an option axis and its possible values.
type ProductOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Variant is a purchasable configuration of a product. ID is the catalog's
// scoped identifier (gid://shopify/ProductVariant/{token}) and is the only
// identifier the cart accepts.
type Variant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Price            Money            `json:"price"`
	AvailableForSale bool             `json:"availableForSale"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
}

// Product is a normalized catalog record. Produced only by the catalog
// client, read-only everywhere else, never persisted.
//
// Variant order is preserved exactly as the catalog returned it: primary
// variant selection (see status.go) depends on source order, so transforms
// must not reorder.
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Handle      string          `json:"handle"`
	Price       Money           `json:"price"`
	Images      []Image         `json:"images"`
	Variants    []Variant       `json:"variants"`
	Options     []ProductOption `json:"options"`
}

// CheckoutLine is one line of a checkout session request: a pre-validated
// variant identifier and a positive quantity.
type CheckoutLine struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// CheckoutSession is the remote-side object created for an in-progress
// purchase. CheckoutURL already carries the channel attribution parameter.
type CheckoutSession struct {
	ID            string `json:"id"`
	CheckoutURL   string `json:"checkoutUrl"`
	TotalQuantity int    `json:"totalQuantity"`
	TotalAmount   Money  `json:"totalAmount"`
}
