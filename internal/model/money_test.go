package model

import (
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"21.99", 21.99, true},
		{"0.00", 0, true},
		{"5", 5, true},
		{"", 0, false},
		{"abc", 0, false},
		{"12.3.4", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAmount(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseAmount(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency string
		want     string
	}{
		{"GBP amount", 21.99, "GBP", "£21.99"},
		{"USD grouped amount", 1234.5, "USD", "US$1,234.50"},
		{"zero amount", 0, "GBP", PriceUnavailable},
		{"NaN amount", math.NaN(), "GBP", PriceUnavailable},
		{"infinite amount", math.Inf(1), "GBP", PriceUnavailable},
		{"unknown currency degrades", 5, "???", "5.00 ???"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPrice(tt.amount, tt.currency); got != tt.want {
				t.Errorf("FormatPrice(%v, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
			}
		})
	}
}
