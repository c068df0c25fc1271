// Package engage implements the auto-add-on-view mechanic: the first time a
// product block becomes sufficiently visible in a session, one unit is added
// to the cart. This is an engagement gimmick, not a transactional cart
// action, so the "viewed" record is kept separate from cart membership — a
// user who removes an auto-added item does not get it re-added on re-scroll.
package engage

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	cartapp "github.com/lockin-coffee/storefront/internal/cart/app"
	catalog "github.com/lockin-coffee/storefront/internal/catalog/domain"
)

const DefaultThreshold = 0.5

// Catalog is the product lookup the watcher needs to resolve visibility
// events into cart additions.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
}

// ViewedSet records which products have crossed the visibility threshold in
// this session. It outlives any individual watcher so a remounted surface
// never re-triggers an add.
type ViewedSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewViewedSet() *ViewedSet {
	return &ViewedSet{seen: make(map[string]struct{})}
}

func (v *ViewedSet) Mark(productID string) {
	v.mu.Lock()
	v.seen[productID] = struct{}{}
	v.mu.Unlock()
}

func (v *ViewedSet) Seen(productID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.seen[productID]
	return ok
}

// Watcher receives visibility events for one mounted surface. Close detaches
// it from the store; events after Close are discarded so a torn-down surface
// can never mutate the cart.
type Watcher struct {
	catalog   Catalog
	store     *cartapp.Store
	viewed    *ViewedSet
	threshold float64
	log       *slog.Logger

	mu     sync.Mutex
	closed bool
}

func NewWatcher(cat Catalog, store *cartapp.Store, viewed *ViewedSet, threshold float64, log *slog.Logger) *Watcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Watcher{
		catalog:   cat,
		store:     store,
		viewed:    viewed,
		threshold: threshold,
		log:       log,
	}
}

// Observe handles one visibility measurement for a product block and reports
// whether it resulted in an auto-add. Unknown product ids and sub-threshold
// ratios are no-ops, never errors.
func (w *Watcher) Observe(ctx context.Context, productID string, ratio float64) bool {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed || ratio < w.threshold {
		return false
	}

	// Only the first threshold crossing per session counts, whatever its
	// outcome: a product that was already in the cart then is not re-added
	// after a later removal.
	if w.viewed.Seen(productID) {
		return false
	}
	w.viewed.Mark(productID)

	if w.store.Has(productID) {
		return false
	}

	product, err := w.catalog.GetProduct(ctx, productID)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			w.log.Debug("visibility event for unknown product",
				slog.String("product_id", productID), slog.Any("err", err))
		}
		return false
	}

	w.store.Add(product, 1)
	w.log.Debug("auto-added product on view",
		slog.String("product_id", productID), slog.Float64("ratio", ratio))
	return true
}

// Close deregisters the watcher. Idempotent.
func (w *Watcher) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}
