package storefront

import (
	"encoding/json"
	"strings"
	"testing"
)

func mustProductNode(t *testing.T, raw string) productNode {
	t.Helper()
	var n productNode
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestProductFromNode_Flattens(t *testing.T) {
	n := mustProductNode(t, productNodeJSON)

	p, err := productFromNode(n)
	if err != nil {
		t.Fatalf("productFromNode() error: %v", err)
	}
	if p.Price.Amount != "21.99" || p.Price.CurrencyCode != "GBP" {
		t.Errorf("Price = %+v, want the minVariantPrice", p.Price)
	}
	if len(p.Variants) != 1 {
		t.Fatalf("len(variants) = %d, want 1", len(p.Variants))
	}
	v := p.Variants[0]
	if len(v.SelectedOptions) != 1 || v.SelectedOptions[0].Name != "Size" {
		t.Errorf("SelectedOptions = %+v, want flattened options", v.SelectedOptions)
	}
	if len(p.Options) != 1 || p.Options[0].Values[0] != "750ml" {
		t.Errorf("Options = %+v, want product options carried through", p.Options)
	}
}

func TestProductFromNode_PreservesVariantOrder(t *testing.T) {
	n := mustProductNode(t, `{
		"id": "gid://shopify/Product/1", "title": "T", "handle": "t",
		"priceRange": {"minVariantPrice": {"amount": "1.00", "currencyCode": "GBP"}},
		"variants": {"edges": [
			{"node": {"id": "gid://shopify/ProductVariant/3", "price": {"amount": "1.00"}}},
			{"node": {"id": "gid://shopify/ProductVariant/1", "price": {"amount": "1.00"}}},
			{"node": {"id": "gid://shopify/ProductVariant/2", "price": {"amount": "1.00"}}}
		]}
	}`)

	p, err := productFromNode(n)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"gid://shopify/ProductVariant/3",
		"gid://shopify/ProductVariant/1",
		"gid://shopify/ProductVariant/2",
	}
	for i, id := range want {
		if p.Variants[i].ID != id {
			t.Errorf("variants[%d] = %s, want %s (source order)", i, p.Variants[i].ID, id)
		}
	}
}

func TestProductFromNode_MissingFields(t *testing.T) {
	base := `{
		"id": "gid://shopify/Product/1", "title": "T", "handle": "t",
		"priceRange": {"minVariantPrice": {"amount": "1.00", "currencyCode": "GBP"}}
	}`

	tests := []struct {
		name    string
		mutate  func(*productNode)
		wantErr string
	}{
		{"missing id", func(n *productNode) { n.ID = "" }, "missing id"},
		{"missing title", func(n *productNode) { n.Title = "" }, "missing title"},
		{"missing handle", func(n *productNode) { n.Handle = "" }, "missing handle"},
		{"missing price range", func(n *productNode) { n.PriceRange.MinVariantPrice.Amount = "" }, "missing price range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := mustProductNode(t, base)
			tt.mutate(&n)
			_, err := productFromNode(n)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("productFromNode() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestProductFromNode_BadVariantFailsProduct(t *testing.T) {
	n := mustProductNode(t, `{
		"id": "gid://shopify/Product/1", "title": "T", "handle": "t",
		"priceRange": {"minVariantPrice": {"amount": "1.00", "currencyCode": "GBP"}},
		"variants": {"edges": [{"node": {"id": "", "price": {"amount": "1.00"}}}]}
	}`)

	if _, err := productFromNode(n); err == nil {
		t.Error("productFromNode() = nil error, want failure for variant without id")
	}
}

func TestProductFromNode_ImageWithoutURLFails(t *testing.T) {
	n := mustProductNode(t, `{
		"id": "gid://shopify/Product/1", "title": "T", "handle": "t",
		"priceRange": {"minVariantPrice": {"amount": "1.00", "currencyCode": "GBP"}},
		"images": {"edges": [{"node": {"url": "", "altText": "x"}}]}
	}`)

	if _, err := productFromNode(n); err == nil {
		t.Error("productFromNode() = nil error, want failure for image without url")
	}
}
