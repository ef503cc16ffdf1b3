package model

import "testing"

func TestStatus(t *testing.T) {
	tests := []struct {
		name    string
		product *Product
		want    ProductStatus
	}{
		{
			name:    "missing product",
			product: nil,
			want:    StatusComingSoon,
		},
		{
			name:    "no variants",
			product: &Product{Variants: []Variant{}},
			want:    StatusComingSoon,
		},
		{
			name: "single unavailable variant",
			product: &Product{Variants: []Variant{
				{AvailableForSale: false},
			}},
			want: StatusSoldOut,
		},
		{
			name: "available and unavailable variants",
			product: &Product{Variants: []Variant{
				{AvailableForSale: true},
				{AvailableForSale: false},
			}},
			want: StatusAvailable,
		},
		{
			name: "available variant not first",
			product: &Product{Variants: []Variant{
				{AvailableForSale: false},
				{AvailableForSale: true},
			}},
			want: StatusAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.product); got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrimaryVariant_SelectionOrder(t *testing.T) {
	// First available wins over earlier unavailable variants.
	p := &Product{Variants: []Variant{
		{ID: "gid://shopify/ProductVariant/1", AvailableForSale: false},
		{ID: "gid://shopify/ProductVariant/2", AvailableForSale: true},
		{ID: "gid://shopify/ProductVariant/3", AvailableForSale: true},
	}}
	v, ok := PrimaryVariant(p)
	if !ok {
		t.Fatal("PrimaryVariant() ok = false, want true")
	}
	if v.ID != "gid://shopify/ProductVariant/2" {
		t.Errorf("PrimaryVariant() = %q, want first available in source order", v.ID)
	}

	// With nothing available, the first variant in source order is primary.
	p.Variants[1].AvailableForSale = false
	p.Variants[2].AvailableForSale = false
	v, ok = PrimaryVariant(p)
	if !ok || v.ID != "gid://shopify/ProductVariant/1" {
		t.Errorf("PrimaryVariant() = %q, ok=%v, want first in source order", v.ID, ok)
	}
}

func TestPrimaryVariant_Empty(t *testing.T) {
	if _, ok := PrimaryVariant(nil); ok {
		t.Error("PrimaryVariant(nil) ok = true, want false")
	}
	if _, ok := PrimaryVariant(&Product{}); ok {
		t.Error("PrimaryVariant(no variants) ok = true, want false")
	}
}

func TestPrice(t *testing.T) {
	p := &Product{Variants: []Variant{
		{Price: Money{Amount: "12.50", CurrencyCode: "GBP"}, AvailableForSale: false},
		{Price: Money{Amount: "9.99", CurrencyCode: "GBP"}, AvailableForSale: true},
	}}
	got, ok := Price(p)
	if !ok || got != 9.99 {
		t.Errorf("Price() = %v, ok=%v, want 9.99 from first available variant", got, ok)
	}

	if _, ok := Price(nil); ok {
		t.Error("Price(nil) ok = true, want false")
	}

	malformed := &Product{Variants: []Variant{{Price: Money{Amount: "n/a"}}}}
	if _, ok := Price(malformed); ok {
		t.Error("Price(malformed amount) ok = true, want false")
	}
}

func TestVariantID(t *testing.T) {
	p := &Product{Variants: []Variant{
		{ID: "gid://shopify/ProductVariant/111", AvailableForSale: true},
	}}
	id, ok := VariantID(p)
	if !ok || id != "gid://shopify/ProductVariant/111" {
		t.Errorf("VariantID() = %q, ok=%v", id, ok)
	}
	if _, ok := VariantID(&Product{}); ok {
		t.Error("VariantID(no variants) ok = true, want false")
	}
}
