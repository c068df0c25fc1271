package engage

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartapp "github.com/lockin-coffee/storefront/internal/cart/app"
	catalogapp "github.com/lockin-coffee/storefront/internal/catalog/app"
	catalog "github.com/lockin-coffee/storefront/internal/catalog/domain"
)

type fakeCatalog map[string]catalog.Product

func (f fakeCatalog) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	p, ok := f[id]
	if !ok {
		return catalog.Product{}, catalogapp.ErrNotFound
	}
	return p, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture() (*Watcher, *cartapp.Store, *ViewedSet) {
	cat := fakeCatalog{
		"house": {ID: "house", Name: "House", Price: catalog.Money{Currency: catalog.Currency, Amount: 36000}},
	}
	store := cartapp.NewStore()
	viewed := NewViewedSet()
	w := NewWatcher(cat, store, viewed, 0.5, discard())
	return w, store, viewed
}

func TestObserveAddsOnFirstThresholdCrossing(t *testing.T) {
	w, store, viewed := newFixture()

	added := w.Observe(context.Background(), "house", 0.6)

	assert.True(t, added)
	assert.True(t, viewed.Seen("house"))
	snap := store.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 1, snap.Items[0].Quantity)
}

func TestObserveBelowThresholdIsNoop(t *testing.T) {
	w, store, viewed := newFixture()

	added := w.Observe(context.Background(), "house", 0.3)

	assert.False(t, added)
	assert.False(t, viewed.Seen("house"))
	assert.True(t, store.Snapshot().Empty())
}

func TestObserveOnlyAddsOncePerSession(t *testing.T) {
	w, store, _ := newFixture()

	require.True(t, w.Observe(context.Background(), "house", 0.9))

	// The user removes the auto-added item; re-scrolling past the block
	// must not re-add it.
	store.Remove("house")
	added := w.Observe(context.Background(), "house", 0.9)

	assert.False(t, added)
	assert.True(t, store.Snapshot().Empty())
}

func TestObserveSkipsProductsAlreadyInCart(t *testing.T) {
	w, store, viewed := newFixture()

	p, _ := fakeCatalog{
		"house": {ID: "house", Name: "House"},
	}.GetProduct(context.Background(), "house")
	store.Add(p, 2)

	added := w.Observe(context.Background(), "house", 1.0)

	assert.False(t, added)
	assert.Equal(t, 2, store.Snapshot().Items[0].Quantity)
	// The crossing still consumes the once-per-session trigger.
	assert.True(t, viewed.Seen("house"))
}

func TestObserveUnknownProductIsNoop(t *testing.T) {
	w, store, _ := newFixture()

	added := w.Observe(context.Background(), "espresso", 1.0)

	assert.False(t, added)
	assert.True(t, store.Snapshot().Empty())
}

func TestClosedWatcherNeverMutates(t *testing.T) {
	w, store, _ := newFixture()

	w.Close()
	w.Close() // idempotent

	added := w.Observe(context.Background(), "house", 1.0)

	assert.False(t, added)
	assert.True(t, store.Snapshot().Empty())
}

func TestViewedSetSurvivesWatcherRemount(t *testing.T) {
	cat := fakeCatalog{
		"house": {ID: "house", Name: "House"},
	}
	store := cartapp.NewStore()
	viewed := NewViewedSet()

	first := NewWatcher(cat, store, viewed, 0.5, discard())
	require.True(t, first.Observe(context.Background(), "house", 0.8))
	first.Close()
	store.Remove("house")

	second := NewWatcher(cat, store, viewed, 0.5, discard())
	added := second.Observe(context.Background(), "house", 0.8)

	assert.False(t, added)
	assert.True(t, store.Snapshot().Empty())
}

func TestInvalidThresholdFallsBackToDefault(t *testing.T) {
	w := NewWatcher(fakeCatalog{}, cartapp.NewStore(), NewViewedSet(), 0, discard())
	assert.Equal(t, DefaultThreshold, w.threshold)

	w = NewWatcher(fakeCatalog{}, cartapp.NewStore(), NewViewedSet(), 1.7, discard())
	assert.Equal(t, DefaultThreshold, w.threshold)
}
