package app

import (
	"sync"

	cartdomain "github.com/lockin-coffee/storefront/internal/cart/domain"
	catalog "github.com/lockin-coffee/storefront/internal/catalog/domain"
)

// Store is the single source of truth for one session's cart. Every mutation
// is serialized, and the updated snapshot is delivered synchronously to all
// current subscribers before the mutating call returns, so independent
// surfaces (receipt widget, checkout summary) never observe diverging state.
//
// None of the operations return errors: out-of-range quantities and unknown
// product ids are defined as clamped behavior or no-ops.
type Store struct {
	mu    sync.Mutex
	items []cartdomain.LineItem
	subs  map[int]func(cartdomain.Snapshot)
	next  int
}

func NewStore() *Store {
	return &Store{
		subs: make(map[int]func(cartdomain.Snapshot)),
	}
}

// Subscribe registers fn to receive a snapshot after every mutation. The
// returned cancel func is idempotent. Callbacks run on the mutating
// goroutine; a callback may itself mutate the store.
func (s *Store) Subscribe(fn func(cartdomain.Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Add puts quantity units of product into the cart. An existing line item is
// incremented; otherwise a new line item is appended, so insertion order is
// display order. Quantities below 1 are clamped to 1.
func (s *Store) Add(product catalog.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].Product.ID == product.ID {
			s.items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, cartdomain.LineItem{Product: product, Quantity: quantity})
	}
	snap, subs := s.publishLocked()
	s.mu.Unlock()

	notify(snap, subs)
}

// Remove deletes the line item for productID. Removing an absent product is
// a no-op; subscribers are only notified when the cart actually changed.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	changed := s.removeLocked(productID)
	var (
		snap cartdomain.Snapshot
		subs []func(cartdomain.Snapshot)
	)
	if changed {
		snap, subs = s.publishLocked()
	}
	s.mu.Unlock()

	notify(snap, subs)
}

// SetQuantity sets the line item for productID to exactly quantity. A
// quantity of zero or less removes the line item. Unknown ids are a no-op.
func (s *Store) SetQuantity(productID string, quantity int) {
	s.mu.Lock()
	changed := false
	if quantity <= 0 {
		changed = s.removeLocked(productID)
	} else {
		for i := range s.items {
			if s.items[i].Product.ID == productID {
				changed = s.items[i].Quantity != quantity
				s.items[i].Quantity = quantity
				break
			}
		}
	}
	var (
		snap cartdomain.Snapshot
		subs []func(cartdomain.Snapshot)
	)
	if changed {
		snap, subs = s.publishLocked()
	}
	s.mu.Unlock()

	notify(snap, subs)
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	snap, subs := s.publishLocked()
	s.mu.Unlock()

	notify(snap, subs)
}

// Snapshot returns the current cart state with derived aggregates.
func (s *Store) Snapshot() cartdomain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cartdomain.Derive(s.copyItemsLocked())
}

func (s *Store) Total() catalog.Money {
	return s.Snapshot().Total
}

func (s *Store) ItemCount() int {
	return s.Snapshot().ItemCount
}

// Has reports whether productID currently has a line item.
func (s *Store) Has(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			return true
		}
	}
	return false
}

func (s *Store) removeLocked(productID string) bool {
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) copyItemsLocked() []cartdomain.LineItem {
	items := make([]cartdomain.LineItem, len(s.items))
	copy(items, s.items)
	return items
}

// publishLocked builds the snapshot and collects the subscriber list while
// the lock is held. Delivery happens after unlock so a subscriber can call
// back into the store.
func (s *Store) publishLocked() (cartdomain.Snapshot, []func(cartdomain.Snapshot)) {
	snap := cartdomain.Derive(s.copyItemsLocked())
	subs := make([]func(cartdomain.Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return snap, subs
}

func notify(snap cartdomain.Snapshot, subs []func(cartdomain.Snapshot)) {
	for _, fn := range subs {
		fn(snap)
	}
}
