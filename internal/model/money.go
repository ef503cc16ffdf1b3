package model

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PriceUnavailable is the fixed sentinel shown when no price can be displayed.
const PriceUnavailable = "Price unavailable"

// pricePrinter matches the storefront's display locale.
var pricePrinter = message.NewPrinter(language.BritishEnglish)

// ParseAmount converts a catalog decimal string (e.g., "21.99") to a float.
// Returns false for empty or malformed input rather than guessing.
func ParseAmount(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatPrice renders an amount as a locale-correct currency string,
// e.g., FormatPrice(21.99, "GBP") == "£21.99".
//
// A zero or non-finite amount means "we have no price to show" and yields
// the PriceUnavailable sentinel. Malformed currency codes degrade to a
// plain numeric rendering; this function never fails.
func FormatPrice(amount float64, currencyCode string) string {
	if amount == 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return PriceUnavailable
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return pricePrinter.Sprintf("%.2f %s", amount, currencyCode)
	}
	// The formatter pads a no-break space between symbol and digits; the
	// storefront shows them joined ("£21.99", not "£ 21.99").
	out := pricePrinter.Sprintf("%v", currency.Symbol(unit.Amount(amount)))
	return symbolSpacer.Replace(out)
}

// symbolSpacer strips the separator message formatters place between a
// currency symbol and its amount.
var symbolSpacer = strings.NewReplacer("\u00a0", "", " ", "")
