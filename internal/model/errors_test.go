package model

import (
	"errors"
	"testing"
)

func TestCheckoutError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *CheckoutError
		want string
	}{
		{
			name: "without wrapped error",
			err:  &CheckoutError{Code: "CHECKOUT_REJECTED", Message: "sold out"},
			want: "CHECKOUT_REJECTED: sold out",
		},
		{
			name: "with wrapped error",
			err:  &CheckoutError{Code: "CHECKOUT_UPSTREAM", Message: "checkout request failed", Err: errors.New("dial tcp: timeout")},
			want: "CHECKOUT_UPSTREAM: checkout request failed (dial tcp: timeout)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckoutErrorSentinels(t *testing.T) {
	if !errors.Is(NewCheckoutRejected("item sold out"), ErrCheckoutFailed) {
		t.Error("NewCheckoutRejected should wrap ErrCheckoutFailed")
	}
	if !errors.Is(NewCheckoutIncomplete(), ErrCheckoutFailed) {
		t.Error("NewCheckoutIncomplete should wrap ErrCheckoutFailed")
	}
	cause := errors.New("boom")
	err := NewCheckoutUpstream(cause)
	if !errors.Is(err, ErrCheckoutFailed) || !errors.Is(err, cause) {
		t.Error("NewCheckoutUpstream should wrap both ErrCheckoutFailed and the cause")
	}

	var ce *CheckoutError
	if !errors.As(error(err), &ce) {
		t.Error("errors.As should find *CheckoutError")
	}
}

func TestNewCheckoutIncomplete_Message(t *testing.T) {
	if got := NewCheckoutIncomplete().Message; got != "missing checkout URL" {
		t.Errorf("Message = %q, want %q", got, "missing checkout URL")
	}
}
