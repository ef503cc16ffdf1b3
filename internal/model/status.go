package model

// ProductStatus is the three-state availability classification derived from a
// product's variants. It is recomputed on every read and never cached:
// availability is backend-owned truth.
type ProductStatus string

const (
	// StatusAvailable: at least one variant can be sold.
	StatusAvailable ProductStatus = "available"

	// StatusSoldOut: variants exist but none can be sold.
	StatusSoldOut ProductStatus = "sold-out"

	// StatusComingSoon: no product record, or a record with no variants.
	StatusComingSoon ProductStatus = "coming-soon"
)

// Status classifies a possibly-missing product record.
func Status(p *Product) ProductStatus {
	if p == nil {
		return StatusComingSoon
	}
	for _, v := range p.Variants {
		if v.AvailableForSale {
			return StatusAvailable
		}
	}
	if len(p.Variants) > 0 {
		return StatusSoldOut
	}
	return StatusComingSoon
}

// PrimaryVariant selects the product's externally visible "primary" variant:
// the first available variant in source order, else the first variant in
// source order. Stability contract: callers rely on source order being
// preserved from fetch to here.
func PrimaryVariant(p *Product) (Variant, bool) {
	if p == nil || len(p.Variants) == 0 {
		return Variant{}, false
	}
	for _, v := range p.Variants {
		if v.AvailableForSale {
			return v, true
		}
	}
	return p.Variants[0], true
}

// Price returns the primary variant's price as a number.
// Returns false when there is no variant or the amount does not parse.
func Price(p *Product) (float64, bool) {
	v, ok := PrimaryVariant(p)
	if !ok {
		return 0, false
	}
	return ParseAmount(v.Price.Amount)
}

// VariantID returns the primary variant's scoped identifier.
func VariantID(p *Product) (string, bool) {
	v, ok := PrimaryVariant(p)
	if !ok {
		return "", false
	}
	return v.ID, true
}
