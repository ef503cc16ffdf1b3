package model

import "strings"

// variantGIDPrefix is the scoped identifier namespace for purchasable
// variants. It is the sole admission check for cart mutations: anything else
// (fallback catalog entries, hand-typed ids) is rejected before it can reach
// a checkout session.
const variantGIDPrefix = "gid://shopify/ProductVariant/"

// IsVariantGID reports whether id is a well-formed scoped variant identifier.
// The token after the namespace must be non-empty.
func IsVariantGID(id string) bool {
	return len(id) > len(variantGIDPrefix) && strings.HasPrefix(id, variantGIDPrefix)
}

// CartItem is one line of locally held cart state. The cart holds at most one
// item per VariantID; Quantity is always >= 1 (anything lower collapses to
// removal). This is the only record that survives storage reloads.
type CartItem struct {
	VariantID string  `json:"variantId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
	Handle    string  `json:"handle,omitempty"`
}
