// Package cart holds the authoritative local cart state: an ordered,
// de-duplicated list of line items plus the checkout session pair
// (cartID, checkoutURL) it may have produced.
//
// The store is the single writer; UI surfaces are passive readers that
// observe state through Subscribe. Every mutation persists fire-and-forget to
// the backing store, so a mid-write crash at worst loses the latest change;
// the remote catalog and checkout session stay authoritative for anything
// that matters.
package cart

import (
	"log/slog"
	"sync"

	"storefront-core/internal/model"
	"storefront-core/internal/storage"
)

// Snapshot is an immutable view of cart state handed to subscribers.
type Snapshot struct {
	Items       []model.CartItem
	CartID      string // empty when no session exists
	CheckoutURL string // empty when no session exists
	Loading     bool
}

// Options configures a Store.
type Options struct {
	// Storage persists cart state between sessions. Nil means a fresh
	// in-memory store (nothing survives the process).
	Storage storage.Store

	// Checkout creates remote checkout sessions. Required for
	// CreateCheckout; other operations work without it.
	Checkout CheckoutCreator

	// Navigate is invoked with the checkout URL after a session is
	// created, mirroring the browser redirect. Optional.
	Navigate func(url string)

	Logger *slog.Logger
}

// Store is the cart. Create one per session with New and share it; all
// methods are safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	items       []model.CartItem
	cartID      string
	checkoutURL string
	creating    bool

	subs      map[int]func(Snapshot)
	nextSubID int

	storage  storage.Store
	checkout CheckoutCreator
	navigate func(string)
	logger   *slog.Logger
}

// New creates a cart store, hydrating state from persisted storage when a
// compatible document is present.
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := opts.Storage
	if store == nil {
		store = storage.NewMemory()
	}

	s := &Store{
		subs:     make(map[int]func(Snapshot)),
		storage:  store,
		checkout: opts.Checkout,
		navigate: opts.Navigate,
		logger:   logger,
	}
	s.hydrate()
	return s
}

// AddItem admits an item into the cart. The variant identifier must be a
// scoped catalog gid; anything else is rejected without mutation. When an
// entry for the same variant already exists its quantity is incremented,
// otherwise the item is appended, preserving insertion order. A quantity
// below one collapses to removal, which for a new item means a no-op.
func (s *Store) AddItem(item model.CartItem) error {
	if !model.IsVariantGID(item.VariantID) {
		s.logger.Error("rejecting cart item with invalid variant id",
			slog.String("variant_id", item.VariantID),
		)
		return model.ErrInvalidVariantID
	}
	if item.Quantity < 1 {
		s.logger.Warn("ignoring cart add with non-positive quantity",
			slog.String("variant_id", item.VariantID),
			slog.Int("quantity", item.Quantity),
		)
		return nil
	}

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].VariantID == item.VariantID {
			s.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item)
	}
	s.mu.Unlock()

	s.persist()
	s.notify()
	return nil
}

// UpdateQuantity sets an entry's quantity to exactly qty. A qty of zero or
// less is defined as removal. Updating an absent variant is a no-op.
func (s *Store) UpdateQuantity(variantID string, qty int) {
	if qty <= 0 {
		s.RemoveItem(variantID)
		return
	}

	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].VariantID == variantID {
			changed = s.items[i].Quantity != qty
			s.items[i].Quantity = qty
			break
		}
	}
	s.mu.Unlock()

	if changed {
		s.persist()
		s.notify()
	}
}

// RemoveItem drops the entry for variantID. Removing an absent id is a no-op.
func (s *Store) RemoveItem(variantID string) {
	s.mu.Lock()
	kept := s.items[:0]
	removed := false
	for _, item := range s.items {
		if item.VariantID == variantID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	s.mu.Unlock()

	if removed {
		s.persist()
		s.notify()
	}
}

// Clear resets items, cartID, and checkoutURL together. The two session
// fields are a consistency pair with the items they were built from; they
// never outlive them.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.cartID = ""
	s.checkoutURL = ""
	s.mu.Unlock()

	s.persist()
	s.notify()
}

// Items returns the cart's line items in insertion order.
func (s *Store) Items() []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.CartItem(nil), s.items...)
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to run after every state change. The returned
// function unsubscribes.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// snapshotLocked builds a Snapshot. Caller holds the lock.
func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Items:       append([]model.CartItem(nil), s.items...),
		CartID:      s.cartID,
		CheckoutURL: s.checkoutURL,
		Loading:     s.creating,
	}
}

// notify delivers the current snapshot to all subscribers, outside the lock
// so callbacks may call back into the store.
func (s *Store) notify() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
