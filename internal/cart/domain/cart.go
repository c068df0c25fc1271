package domain

import (
	catalog "github.com/lockin-coffee/storefront/internal/catalog/domain"
)

// LineItem is one product in the cart with its quantity. Identity is the
// product id: a cart never holds two line items for the same product.
type LineItem struct {
	Product  catalog.Product
	Quantity int
}

func (li LineItem) LineTotal() int64 {
	return li.Product.Price.Amount * int64(li.Quantity)
}

// Snapshot is an immutable view of the cart at one point in time. Total and
// ItemCount are always derived from Items; there are no independent counters
// that could drift.
type Snapshot struct {
	Items     []LineItem
	Total     catalog.Money
	ItemCount int
}

func (s Snapshot) Empty() bool {
	return len(s.Items) == 0
}

// Derive builds a snapshot from line items, recomputing the aggregates.
func Derive(items []LineItem) Snapshot {
	snap := Snapshot{
		Items: items,
		Total: catalog.Money{Currency: catalog.Currency},
	}
	for _, li := range items {
		snap.Total.Amount += li.LineTotal()
		snap.ItemCount += li.Quantity
	}
	return snap
}
