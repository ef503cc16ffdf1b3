package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the core's failure taxonomy.
// Check with errors.Is().
var (
	// ErrUpstream: the catalog backend misbehaved (transport, non-2xx,
	// application errors, malformed payload). Never escapes the catalog
	// client as a returned error; it only appears wrapped in checkout
	// failures, where there is no silent fallback.
	ErrUpstream = errors.New("upstream error")

	// ErrInvalidVariantID: an identifier failed the scoped-format check.
	ErrInvalidVariantID = errors.New("invalid variant id")

	// ErrCheckoutFailed: a checkout session could not be created.
	ErrCheckoutFailed = errors.New("checkout failed")

	// ErrEmptyCart: a checkout session was requested with no lines.
	ErrEmptyCart = errors.New("cart has no items")

	// ErrCheckoutInProgress: a checkout is already being created; the
	// caller's re-entry was rejected without touching the network.
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// CheckoutError is the one user-visible failure class: checkout session
// creation failed and the UI must tell the user. Implements error and
// supports unwrapping so callers can still test sentinels.
type CheckoutError struct {
	Code    string // stable machine-readable code
	Message string // user-presentable summary
	Err     error  // wrapped cause, may be nil
}

func (e *CheckoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

// NewCheckoutRejected reports user-facing errors returned by the remote
// mutation, with the messages already joined for display.
func NewCheckoutRejected(joined string) *CheckoutError {
	return &CheckoutError{
		Code:    "CHECKOUT_REJECTED",
		Message: joined,
		Err:     ErrCheckoutFailed,
	}
}

// NewCheckoutIncomplete reports a session the remote accepted but returned
// without a usable redirect URL.
func NewCheckoutIncomplete() *CheckoutError {
	return &CheckoutError{
		Code:    "CHECKOUT_INCOMPLETE",
		Message: "missing checkout URL",
		Err:     ErrCheckoutFailed,
	}
}

// NewCheckoutUpstream reports a transport or protocol failure while creating
// the session.
func NewCheckoutUpstream(err error) *CheckoutError {
	return &CheckoutError{
		Code:    "CHECKOUT_UPSTREAM",
		Message: "checkout request failed",
		Err:     fmt.Errorf("%w: %w", ErrCheckoutFailed, err),
	}
}
