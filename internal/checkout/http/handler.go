package http

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	checkoutapp "github.com/lockin-coffee/storefront/internal/checkout/app"
	"github.com/lockin-coffee/storefront/internal/checkout/domain"
	"github.com/lockin-coffee/storefront/internal/session"
	sessionhttp "github.com/lockin-coffee/storefront/internal/session/http"
	"github.com/lockin-coffee/storefront/pkg/httpx"
)

type Handler struct {
	sessions *session.Manager
}

func NewHandler(sessions *session.Manager) *Handler {
	return &Handler{sessions: sessions}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/checkout/begin", h.begin)
	mux.HandleFunc("GET /api/checkout", h.state)
	mux.HandleFunc("POST /api/checkout/shipping", h.shipping)
	mux.HandleFunc("POST /api/checkout/address", h.address)
	mux.HandleFunc("POST /api/checkout/edit", h.edit)
	mux.HandleFunc("POST /api/checkout/pay", h.pay)
}

type quoteLineJSON struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

type quoteJSON struct {
	Lines       []quoteLineJSON `json:"lines"`
	Subtotal    int64           `json:"subtotal"`
	ShippingFee int64           `json:"shipping_fee"`
	Total       int64           `json:"total"`
	Currency    string          `json:"currency"`
}

type stateResponse struct {
	State    domain.State        `json:"state"`
	Shipping domain.ShippingInfo `json:"shipping"`
	Quote    quoteJSON           `json:"quote"`
}

type shippingRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	AddressDetail string `json:"address_detail"`
	Memo          string `json:"memo"`
}

type addressRequest struct {
	ZipCode string `json:"zonecode"`
	Address string `json:"address"`
}

type payResponse struct {
	State   domain.State          `json:"state"`
	Outcome domain.PaymentOutcome `json:"outcome"`
}

func (h *Handler) begin(w http.ResponseWriter, r *http.Request) {
	s, err := sessionhttp.Resolve(h.sessions, r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	s.Checkout.Begin()
	httpx.WriteJSON(w, http.StatusOK, h.render(s))
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	s, err := sessionhttp.Resolve(h.sessions, r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.render(s))
}

// shipping updates the free-text fields and attempts the transition to
// payment. A missing mandatory field leaves the flow in shipping — the
// response state is the only signal, there is no error.
func (h *Handler) shipping(w http.ResponseWriter, r *http.Request) {
	s, err := sessionhttp.Resolve(h.sessions, r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	var req shippingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	s.Checkout.UpdateContact(req.Name, req.Phone, req.Email, req.AddressDetail, req.Memo)
	s.Checkout.ContinueToPayment()
	httpx.WriteJSON(w, http.StatusOK, h.render(s))
}

// address receives the address-lookup widget callback and assigns the postal
// code and formatted address verbatim.
func (h *Handler) address(w http.ResponseWriter, r *http.Request) {
	s, err := sessionhttp.Resolve(h.sessions, r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	var req addressRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	s.Checkout.ApplyAddress(req.ZipCode, req.Address)
	httpx.WriteJSON(w, http.StatusOK, h.render(s))
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	s, err := sessionhttp.Resolve(h.sessions, r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	s.Checkout.EditShipping()
	httpx.WriteJSON(w, http.StatusOK, h.render(s))
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	s, err := sessionhttp.Resolve(h.sessions, r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	outcome, err := s.Checkout.Pay(r.Context())
	if err != nil {
		if errors.Is(err, checkoutapp.ErrPaymentInFlight) {
			httpx.WriteError(w, status.Error(codes.FailedPrecondition, "payment already in flight"))
			return
		}
		httpx.WriteError(w, status.Error(codes.Internal, "internal error"))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, payResponse{
		State:   s.Checkout.State(),
		Outcome: outcome,
	})
}

func (h *Handler) render(s *session.Session) stateResponse {
	return stateResponse{
		State:    s.Checkout.State(),
		Shipping: s.Checkout.Shipping(),
		Quote:    toQuoteJSON(s.Checkout.Quote()),
	}
}

func toQuoteJSON(q domain.Quote) quoteJSON {
	out := quoteJSON{
		Lines:       make([]quoteLineJSON, 0, len(q.Lines)),
		Subtotal:    q.Subtotal.Amount,
		ShippingFee: q.ShippingFee.Amount,
		Total:       q.Total.Amount,
		Currency:    q.Total.Currency,
	}
	for _, ln := range q.Lines {
		out.Lines = append(out.Lines, quoteLineJSON{
			ProductID: ln.ProductID,
			Name:      ln.Name,
			Quantity:  ln.Quantity,
			UnitPrice: ln.UnitPrice.Amount,
			LineTotal: ln.LineTotal.Amount,
		})
	}
	return out
}
