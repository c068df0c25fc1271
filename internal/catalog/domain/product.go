package domain

// Currency is the only currency the storefront sells in. Amounts are whole
// KRW with no minor unit.
const Currency = "KRW"

type Money struct {
	Currency string
	Amount   int64
}

// Product is one catalog entry. The catalog is static and read-only: products
// carry everything the surfaces need to render them, including the localized
// copy and the UI color token.
type Product struct {
	ID            string
	Name          string
	NameKR        string
	Flavor        string
	Price         Money
	OriginalPrice int64 // 0 when the product has no strike-through price
	TastingNotes  []string
	Description   string
	DescriptionKR string
	Color         string
	Badge         string

	// Kit products are bundles: they display an includes list instead of
	// tasting notes.
	IsKit    bool
	Includes []string
}

func (p Product) HasDiscount() bool {
	return p.OriginalPrice > 0
}
