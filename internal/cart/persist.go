package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/mod/semver"

	"storefront-core/internal/model"
)

// storageKey is the single fixed key the cart owns in the backing store.
const storageKey = "cart-storage"

// schemaVersion tags persisted documents. Hydration accepts any document
// within the same major version and treats the rest as absent; state from an
// incompatible release must not poison a fresh cart.
const schemaVersion = "v1.0.0"

// persistTimeout bounds a single fire-and-forget write.
const persistTimeout = 3 * time.Second

// document is the persisted cart layout.
type document struct {
	SchemaVersion string           `json:"schemaVersion"`
	Items         []model.CartItem `json:"items"`
	CartID        *string          `json:"cartId"`
	CheckoutURL   *string          `json:"checkoutUrl"`
}

// persist writes current state to the backing store. Failures are logged and
// swallowed: the cart is a convenience cache, and a failed write must never
// surface through a mutation.
func (s *Store) persist() {
	s.mu.Lock()
	doc := document{
		SchemaVersion: schemaVersion,
		Items:         append([]model.CartItem{}, s.items...),
		CartID:        nullableString(s.cartID),
		CheckoutURL:   nullableString(s.checkoutURL),
	}
	s.mu.Unlock()

	data, err := json.Marshal(doc)
	if err != nil {
		s.logger.Error("encoding cart state failed", slog.Any("error", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.storage.Set(ctx, storageKey, data); err != nil {
		s.logger.Warn("persisting cart state failed", slog.Any("error", err))
	}
}

// hydrate loads persisted state, if any. Anything unreadable or from an
// incompatible schema major version hydrates as an empty cart.
func (s *Store) hydrate() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	data, ok, err := s.storage.Get(ctx, storageKey)
	if err != nil {
		s.logger.Warn("reading persisted cart failed, starting empty", slog.Any("error", err))
		return
	}
	if !ok {
		return
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("persisted cart unreadable, starting empty", slog.Any("error", err))
		return
	}
	if doc.SchemaVersion != "" && semver.Major(doc.SchemaVersion) != semver.Major(schemaVersion) {
		s.logger.Warn("persisted cart schema incompatible, starting empty",
			slog.String("found", doc.SchemaVersion),
			slog.String("want", schemaVersion),
		)
		return
	}

	// Quantities are re-asserted on load and duplicate variant lines are
	// merged, so the at-most-one-entry-per-variant invariant holds from the
	// first snapshot. Malformed variant identifiers are deliberately kept:
	// legacy documents may carry them, and checkout owns that repair.
	items := make([]model.CartItem, 0, len(doc.Items))
	index := make(map[string]int, len(doc.Items))
	for _, item := range doc.Items {
		if item.Quantity < 1 {
			s.logger.Warn("dropping persisted cart item with invalid quantity",
				slog.String("variant_id", item.VariantID),
				slog.Int("quantity", item.Quantity),
			)
			continue
		}
		if i, ok := index[item.VariantID]; ok {
			items[i].Quantity += item.Quantity
			continue
		}
		index[item.VariantID] = len(items)
		items = append(items, item)
	}

	s.mu.Lock()
	s.items = items
	s.cartID = stringValue(doc.CartID)
	s.checkoutURL = stringValue(doc.CheckoutURL)
	s.mu.Unlock()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
