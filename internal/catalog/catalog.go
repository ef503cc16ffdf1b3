// Package catalog defines the read interface over product sources and the
// static fallback used when the remote backend is unusable.
package catalog

import (
	"context"

	"storefront-core/internal/model"
)

// Source is a product catalog. Implementations never return errors: a source
// that cannot answer returns an empty list or nil, and the page renders with
// whatever is left.
type Source interface {
	// FetchProducts lists up to one page of products. Never nil.
	FetchProducts(ctx context.Context) []model.Product

	// FetchProductByHandle returns the product for handle, or nil.
	FetchProductByHandle(ctx context.Context, handle string) *model.Product
}

// Fallback is a fixed in-memory source. Its records intentionally carry no
// variants, so they classify as coming-soon and can never be admitted to the
// cart or reach a checkout session.
type Fallback struct {
	products []model.Product
}

// NewFallback creates a fallback source over the given records.
func NewFallback(products []model.Product) *Fallback {
	return &Fallback{products: products}
}

// DefaultFallback returns the shop's built-in fallback catalog: the featured
// drinks, listed without variants so the page keeps rendering while the
// remote backend is down but nothing can be bought.
func DefaultFallback() *Fallback {
	return NewFallback([]model.Product{
		{
			ID:          "fallback/recovery-cocoa",
			Title:       "Recovery Cocoa",
			Handle:      "recovery-cocoa",
			Description: "A mineral-rich hot chocolate made with organic cacao, coconut, and electrolytes.",
			Price:       model.Money{Amount: "21.99", CurrencyCode: "GBP"},
		},
		{
			ID:          "fallback/seasonal-drinks",
			Title:       "Seasonal Drinks",
			Handle:      "seasonal-drinks",
			Description: "Limited seasonal blends, announced through the newsletter before they land.",
			Price:       model.Money{Amount: "19.99", CurrencyCode: "GBP"},
		},
	})
}

func (f *Fallback) FetchProducts(_ context.Context) []model.Product {
	out := make([]model.Product, len(f.products))
	copy(out, f.products)
	return out
}

func (f *Fallback) FetchProductByHandle(_ context.Context, handle string) *model.Product {
	for _, p := range f.products {
		if p.Handle == handle {
			product := p
			return &product
		}
	}
	return nil
}

// Chain consults sources in order and returns the first non-empty answer.
// Typical wiring: remote storefront first, static fallback second.
type Chain struct {
	sources []Source
}

// NewChain creates a chained source. At least one source is expected.
func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

func (c *Chain) FetchProducts(ctx context.Context) []model.Product {
	for _, s := range c.sources {
		if products := s.FetchProducts(ctx); len(products) > 0 {
			return products
		}
	}
	return []model.Product{}
}

func (c *Chain) FetchProductByHandle(ctx context.Context, handle string) *model.Product {
	for _, s := range c.sources {
		if p := s.FetchProductByHandle(ctx, handle); p != nil {
			return p
		}
	}
	return nil
}
