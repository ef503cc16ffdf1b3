package cart

import (
	"context"
	"fmt"
	"log/slog"

	"storefront-core/internal/model"
)

// CheckoutCreator builds a remote checkout session from validated lines.
// Implemented by the storefront client.
type CheckoutCreator interface {
	CreateCheckout(ctx context.Context, lines []model.CheckoutLine) (*model.CheckoutSession, error)
}

// CreateCheckout converts the cart's contents into a remote checkout session.
//
// Items whose identifiers fail the scoped-format check are removed first
// (a repair step, not a failure), and removal invalidates any session built
// from the old contents, so cartID and checkoutURL are cleared with them.
// With nothing valid left, the call aborts without touching the network.
// Otherwise the valid lines are submitted; on success the session is
// recorded and the Navigate callback fires with the redirect URL, and on
// failure the typed error propagates so the UI can tell the user.
//
// Re-entry while a session is being created is rejected with
// ErrCheckoutInProgress; a double trigger must not create two remote
// sessions. Loading is visible in snapshots for the duration and resets on
// every exit path.
func (s *Store) CreateCheckout(ctx context.Context) error {
	s.mu.Lock()
	if s.creating {
		s.mu.Unlock()
		s.logger.Warn("checkout already in progress, rejecting re-entry")
		return model.ErrCheckoutInProgress
	}

	valid := make([]model.CartItem, 0, len(s.items))
	invalid := 0
	for _, item := range s.items {
		if model.IsVariantGID(item.VariantID) {
			valid = append(valid, item)
		} else {
			invalid++
		}
	}

	repaired := invalid > 0
	if repaired {
		s.items = valid
		s.cartID = ""
		s.checkoutURL = ""
	}

	if len(valid) == 0 {
		s.mu.Unlock()
		if repaired {
			s.persist()
			s.notify()
		}
		s.logger.Warn("checkout skipped: no valid items in cart",
			slog.Int("removed_invalid", invalid),
		)
		return nil
	}

	if s.checkout == nil {
		s.mu.Unlock()
		// The repair already happened and must outlive this error.
		if repaired {
			s.persist()
			s.notify()
		}
		return fmt.Errorf("cart store has no checkout creator configured")
	}

	s.creating = true
	lines := make([]model.CheckoutLine, len(valid))
	for i, item := range valid {
		lines[i] = model.CheckoutLine{VariantID: item.VariantID, Quantity: item.Quantity}
	}
	s.mu.Unlock()

	if repaired {
		s.logger.Info("removed invalid cart items before checkout",
			slog.Int("count", invalid),
		)
		s.persist()
	}
	s.notify()

	session, err := s.checkout.CreateCheckout(ctx, lines)

	s.mu.Lock()
	s.creating = false
	if err == nil {
		s.cartID = session.ID
		s.checkoutURL = session.CheckoutURL
	}
	s.mu.Unlock()

	if err != nil {
		s.notify()
		s.logger.Error("checkout session creation failed", slog.Any("error", err))
		return err
	}

	s.persist()
	s.notify()
	if s.navigate != nil {
		s.navigate(session.CheckoutURL)
	}
	return nil
}
