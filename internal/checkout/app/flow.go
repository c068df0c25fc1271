package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	cartapp "github.com/lockin-coffee/storefront/internal/cart/app"
	catalog "github.com/lockin-coffee/storefront/internal/catalog/domain"
	"github.com/lockin-coffee/storefront/internal/checkout/domain"
)

var ErrPaymentInFlight = errors.New("payment request in flight")

type FlowConfig struct {
	ShippingFee int64
	SuccessURL  string
	FailURL     string
}

// Flow is the two-step checkout state machine for one session. It reads the
// cart store for the amount to charge and clears it on confirmed success;
// a cancelled or failed payment leaves both the cart and the flow state
// untouched.
type Flow struct {
	cart     *cartapp.Store
	payments PaymentClient
	cfg      FlowConfig
	log      *slog.Logger

	mu         sync.Mutex
	state      domain.State
	shipping   domain.ShippingInfo
	processing bool
}

func NewFlow(cart *cartapp.Store, payments PaymentClient, cfg FlowConfig, log *slog.Logger) *Flow {
	return &Flow{
		cart:     cart,
		payments: payments,
		cfg:      cfg,
		log:      log,
		state:    domain.StateEmpty,
	}
}

// Begin enters the checkout flow. An empty cart short-circuits to the empty
// state without ever reaching shipping or payment. Re-entering after a
// confirmed order starts a fresh flow.
func (f *Flow) Begin() domain.State {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cart.ItemCount() == 0 {
		f.state = domain.StateEmpty
		return f.state
	}

	switch f.state {
	case domain.StateShipping, domain.StatePayment:
		// Mid-flow re-entry keeps the entered data.
	default:
		f.state = domain.StateShipping
		f.shipping = domain.ShippingInfo{}
	}
	return f.state
}

func (f *Flow) State() domain.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Shipping() domain.ShippingInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shipping
}

// UpdateContact sets the free-text shipping fields. It only applies while
// the flow is collecting shipping info; anywhere else it is a no-op.
func (f *Flow) UpdateContact(name, phone, email, addressDetail, memo string) domain.ShippingInfo {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == domain.StateShipping {
		f.shipping.Name = name
		f.shipping.Phone = phone
		f.shipping.Email = email
		f.shipping.AddressDetail = addressDetail
		f.shipping.Memo = memo
	}
	return f.shipping
}

// ApplyAddress writes the address-lookup callback result. The postal code
// and formatted address are assigned verbatim, never validated or parsed.
func (f *Flow) ApplyAddress(zipCode, address string) domain.ShippingInfo {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == domain.StateShipping {
		f.shipping.ZipCode = zipCode
		f.shipping.Address = address
	}
	return f.shipping
}

// ContinueToPayment attempts the shipping -> payment transition. If any
// mandatory field is missing the flow stays in shipping — blocked controls,
// not errors, are the validation surface here.
func (f *Flow) ContinueToPayment() domain.State {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == domain.StateShipping && f.shipping.Complete() {
		f.state = domain.StatePayment
	}
	return f.state
}

// EditShipping returns from payment to shipping without losing the entered
// shipping data.
func (f *Flow) EditShipping() domain.State {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == domain.StatePayment {
		f.state = domain.StateShipping
	}
	return f.state
}

// Quote derives the order summary from the live cart snapshot plus the
// configured shipping fee.
func (f *Flow) Quote() domain.Quote {
	snap := f.cart.Snapshot()

	q := domain.Quote{
		Lines:       make([]domain.QuoteLine, 0, len(snap.Items)),
		Subtotal:    snap.Total,
		ShippingFee: catalog.Money{Currency: catalog.Currency, Amount: f.cfg.ShippingFee},
	}
	for _, li := range snap.Items {
		q.Lines = append(q.Lines, domain.QuoteLine{
			ProductID: li.Product.ID,
			Name:      li.Product.Name,
			Quantity:  li.Quantity,
			UnitPrice: li.Product.Price,
			LineTotal: catalog.Money{Currency: catalog.Currency, Amount: li.LineTotal()},
		})
	}
	q.Total = catalog.Money{Currency: catalog.Currency, Amount: q.Subtotal.Amount + q.ShippingFee.Amount}
	return q
}

// Pay runs one payment attempt against the provider for the cart's current
// total plus the shipping fee. Approved clears the cart and confirms the
// flow; cancelled and failed leave everything unchanged — provider errors
// are swallowed at this boundary with diagnostics only. Outside the payment
// state Pay is a no-op reporting a failed outcome.
func (f *Flow) Pay(ctx context.Context) (domain.PaymentOutcome, error) {
	f.mu.Lock()
	if f.state != domain.StatePayment {
		f.mu.Unlock()
		return domain.OutcomeFailed, nil
	}
	if f.processing {
		f.mu.Unlock()
		return domain.OutcomeFailed, ErrPaymentInFlight
	}
	f.processing = true
	req := f.buildRequestLocked()
	f.mu.Unlock()

	outcome, err := f.payments.Request(ctx, req)
	if err != nil {
		f.log.Warn("payment request failed",
			slog.String("order_id", req.OrderID), slog.Any("err", err))
		outcome = domain.OutcomeFailed
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.processing = false

	if outcome == domain.OutcomeApproved {
		f.cart.Clear()
		f.state = domain.StateConfirmed
		f.log.Info("order confirmed",
			slog.String("order_id", req.OrderID), slog.Int64("amount", req.Amount))
	}
	return outcome, nil
}

// buildRequestLocked assembles the provider payload: the charge amount, an
// order id unique per attempt, and an order name derived from the first line
// item and the line count.
func (f *Flow) buildRequestLocked() domain.PaymentRequest {
	snap := f.cart.Snapshot()

	name := ""
	if len(snap.Items) > 0 {
		name = snap.Items[0].Product.Name
		if len(snap.Items) > 1 {
			name = fmt.Sprintf("%s 외 %d건", name, len(snap.Items)-1)
		}
	}

	return domain.PaymentRequest{
		Amount:       snap.Total.Amount + f.cfg.ShippingFee,
		OrderID:      newOrderID(),
		OrderName:    name,
		CustomerName: f.shipping.Name,
		SuccessURL:   f.cfg.SuccessURL,
		FailURL:      f.cfg.FailURL,
	}
}

// newOrderID builds a timestamp-plus-random-suffix id, unique per attempt.
func newOrderID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("LOCKIN_%d_%s", time.Now().UnixMilli(), suffix)
}
