package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	cartdomain "github.com/lockin-coffee/storefront/internal/cart/domain"
	catalog "github.com/lockin-coffee/storefront/internal/catalog/domain"
)

func product(id, name string, price int64) catalog.Product {
	return catalog.Product{
		ID:    id,
		Name:  name,
		Price: catalog.Money{Currency: catalog.Currency, Amount: price},
	}
}

var (
	signature = product("decaf", "Signature", 39000)
	house     = product("house", "House", 36000)
	vibrant   = product("vibrant", "Vibrant", 42000)
)

func TestAddMergesLineItems(t *testing.T) {
	s := NewStore()

	s.Add(signature, 2)
	s.Add(signature, 3)

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "decaf", snap.Items[0].Product.ID)
	assert.Equal(t, 5, snap.Items[0].Quantity)
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	s := NewStore()

	s.Add(house, 1)
	s.Add(signature, 1)
	s.Add(house, 1)
	s.Add(vibrant, 1)

	snap := s.Snapshot()
	require.Len(t, snap.Items, 3)
	assert.Equal(t, "house", snap.Items[0].Product.ID)
	assert.Equal(t, "decaf", snap.Items[1].Product.ID)
	assert.Equal(t, "vibrant", snap.Items[2].Product.ID)
}

func TestAddClampsNonPositiveQuantity(t *testing.T) {
	s := NewStore()

	s.Add(signature, 0)
	s.Add(house, -4)

	snap := s.Snapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, 1, snap.Items[0].Quantity)
	assert.Equal(t, 1, snap.Items[1].Quantity)
}

func TestDerivedTotals(t *testing.T) {
	s := NewStore()

	// The worked example: Signature x1 + House x2.
	s.Add(signature, 1)
	s.Add(house, 2)

	snap := s.Snapshot()
	assert.Equal(t, int64(111000), snap.Total.Amount)
	assert.Equal(t, catalog.Currency, snap.Total.Currency)
	assert.Equal(t, 3, snap.ItemCount)
}

func TestTotalsAlwaysRecomputed(t *testing.T) {
	s := NewStore()

	s.Add(signature, 2)
	s.Add(vibrant, 1)
	s.SetQuantity("decaf", 4)
	s.Remove("vibrant")
	s.Add(house, 3)
	s.SetQuantity("house", 1)

	snap := s.Snapshot()
	var total int64
	count := 0
	for _, li := range snap.Items {
		total += li.Product.Price.Amount * int64(li.Quantity)
		count += li.Quantity
	}
	assert.Equal(t, total, snap.Total.Amount)
	assert.Equal(t, count, snap.ItemCount)
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	s := NewStore()

	s.Add(signature, 2)
	s.SetQuantity("decaf", 0)

	snap := s.Snapshot()
	assert.Empty(t, snap.Items)
	assert.False(t, s.Has("decaf"))
}

func TestSetQuantityUnknownIDIsNoop(t *testing.T) {
	s := NewStore()

	s.Add(signature, 1)
	before := s.Snapshot()

	s.SetQuantity("nope", 5)

	assert.Equal(t, before, s.Snapshot())
}

func TestRemoveUnknownIDIsNoop(t *testing.T) {
	s := NewStore()

	s.Add(house, 2)
	before := s.Snapshot()

	s.Remove("nope")

	assert.Equal(t, before, s.Snapshot())
}

func TestClear(t *testing.T) {
	s := NewStore()

	s.Add(signature, 3)
	s.Add(house, 1)
	s.Clear()

	snap := s.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Equal(t, int64(0), snap.Total.Amount)
	assert.Equal(t, 0, snap.ItemCount)
}

func TestSubscriberSeesEveryMutationSynchronously(t *testing.T) {
	s := NewStore()

	var seen []cartdomain.Snapshot
	cancel := s.Subscribe(func(snap cartdomain.Snapshot) {
		seen = append(seen, snap)
	})
	defer cancel()

	s.Add(signature, 1)
	require.Len(t, seen, 1)
	assert.Equal(t, 1, seen[0].ItemCount)

	s.SetQuantity("decaf", 4)
	require.Len(t, seen, 2)
	assert.Equal(t, 4, seen[1].ItemCount)

	s.Clear()
	require.Len(t, seen, 3)
	assert.True(t, seen[2].Empty())
}

func TestNoopMutationsDoNotNotify(t *testing.T) {
	s := NewStore()
	s.Add(signature, 1)

	calls := 0
	cancel := s.Subscribe(func(cartdomain.Snapshot) { calls++ })
	defer cancel()

	s.Remove("nope")
	s.SetQuantity("nope", 2)

	assert.Zero(t, calls)
}

func TestAllSubscribersObserveSameState(t *testing.T) {
	s := NewStore()

	var a, b cartdomain.Snapshot
	cancelA := s.Subscribe(func(snap cartdomain.Snapshot) { a = snap })
	cancelB := s.Subscribe(func(snap cartdomain.Snapshot) { b = snap })
	defer cancelA()
	defer cancelB()

	s.Add(house, 2)
	s.Add(vibrant, 1)

	assert.Equal(t, a, b)
	assert.Equal(t, int64(36000*2+42000), a.Total.Amount)
}

func TestCancelledSubscriberStopsReceiving(t *testing.T) {
	s := NewStore()

	calls := 0
	cancel := s.Subscribe(func(cartdomain.Snapshot) { calls++ })

	s.Add(signature, 1)
	cancel()
	cancel() // idempotent
	s.Add(house, 1)

	assert.Equal(t, 1, calls)
}

func TestSubscriberMayMutateStore(t *testing.T) {
	s := NewStore()

	// A consumer that caps every line item at 10 units.
	cancel := s.Subscribe(func(snap cartdomain.Snapshot) {
		for _, li := range snap.Items {
			if li.Quantity > 10 {
				s.SetQuantity(li.Product.ID, 10)
			}
		}
	})
	defer cancel()

	s.Add(signature, 25)

	assert.Equal(t, 10, s.Snapshot().Items[0].Quantity)
}

func TestConcurrentAddIncrement(t *testing.T) {
	s := NewStore()

	const n = 100
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			s.Add(signature, 1)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, n, snap.Items[0].Quantity)
	assert.Equal(t, int64(n)*signature.Price.Amount, snap.Total.Amount)
}
