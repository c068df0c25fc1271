package domain

import (
	catalog "github.com/lockin-coffee/storefront/internal/catalog/domain"
)

// State is the checkout flow position. Transitions are linear
// (shipping -> payment -> confirmed) except the explicit edit action that
// returns payment -> shipping without losing entered data.
type State string

const (
	// StateEmpty short-circuits the whole flow when the cart is empty on
	// entry; neither shipping nor payment is ever reached from it.
	StateEmpty     State = "empty"
	StateShipping  State = "shipping"
	StatePayment   State = "payment"
	StateConfirmed State = "confirmed"
)

// ShippingInfo holds the shipping form. Address and ZipCode are written
// exclusively by the address-lookup widget callback; they are assigned
// verbatim and never parsed or validated here.
type ShippingInfo struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	AddressDetail string `json:"address_detail"`
	ZipCode       string `json:"zip_code"`
	Memo          string `json:"memo"`
}

// Complete reports whether every mandatory field is populated, which is the
// guard for the shipping -> payment transition.
func (s ShippingInfo) Complete() bool {
	return s.Name != "" && s.Phone != "" && s.Email != "" && s.Address != "" && s.ZipCode != ""
}

// PaymentRequest is the payload handed to the hosted payment provider.
type PaymentRequest struct {
	Amount       int64
	OrderID      string
	OrderName    string
	CustomerName string
	SuccessURL   string
	FailURL      string
}

type PaymentOutcome string

const (
	OutcomeApproved  PaymentOutcome = "approved"
	OutcomeCancelled PaymentOutcome = "cancelled"
	OutcomeFailed    PaymentOutcome = "failed"
)

type QuoteLine struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice catalog.Money
	LineTotal catalog.Money
}

// Quote is the order summary derived from the live cart: line totals, the
// subtotal, the (currently zero) shipping fee and the grand total.
type Quote struct {
	Lines       []QuoteLine
	Subtotal    catalog.Money
	ShippingFee catalog.Money
	Total       catalog.Money
}
