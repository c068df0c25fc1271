package http

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lockin-coffee/storefront/internal/cart/domain"
	catalogapp "github.com/lockin-coffee/storefront/internal/catalog/app"
	"github.com/lockin-coffee/storefront/internal/session"
	sessionhttp "github.com/lockin-coffee/storefront/internal/session/http"
	"github.com/lockin-coffee/storefront/pkg/httpx"
)

type Handler struct {
	sessions *session.Manager
	catalog  *catalogapp.Service
}

func NewHandler(sessions *session.Manager, catalog *catalogapp.Service) *Handler {
	return &Handler{sessions: sessions, catalog: catalog}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/cart", h.get)
	mux.HandleFunc("POST /api/cart/items", h.addItem)
	mux.HandleFunc("PATCH /api/cart/items/{id}", h.setQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.removeItem)
	mux.HandleFunc("DELETE /api/cart", h.clear)
}

type lineItemJSON struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	NameKR    string `json:"name_kr"`
	Color     string `json:"color"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"line_total"`
}

type cartJSON struct {
	Items     []lineItemJSON `json:"items"`
	Total     int64          `json:"total"`
	Currency  string         `json:"currency"`
	ItemCount int            `json:"item_count"`
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	s, err := sessionhttp.Resolve(h.sessions, r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toJSON(s.Cart.Snapshot()))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	s, err := sessionhttp.Resolve(h.sessions, r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	var req addItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalogapp.ErrNotFound) {
			httpx.WriteError(w, status.Error(codes.NotFound, "unknown product"))
			return
		}
		httpx.WriteError(w, status.Error(codes.InvalidArgument, "product_id is required"))
		return
	}

	s.Cart.Add(product, req.Quantity)
	httpx.WriteJSON(w, http.StatusOK, toJSON(s.Cart.Snapshot()))
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	s, err := sessionhttp.Resolve(h.sessions, r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	var req setQuantityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	s.Cart.SetQuantity(r.PathValue("id"), req.Quantity)
	httpx.WriteJSON(w, http.StatusOK, toJSON(s.Cart.Snapshot()))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	s, err := sessionhttp.Resolve(h.sessions, r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	s.Cart.Remove(r.PathValue("id"))
	httpx.WriteJSON(w, http.StatusOK, toJSON(s.Cart.Snapshot()))
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	s, err := sessionhttp.Resolve(h.sessions, r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	s.Cart.Clear()
	httpx.WriteJSON(w, http.StatusOK, toJSON(s.Cart.Snapshot()))
}

func toJSON(snap domain.Snapshot) cartJSON {
	out := cartJSON{
		Items:     make([]lineItemJSON, 0, len(snap.Items)),
		Total:     snap.Total.Amount,
		Currency:  snap.Total.Currency,
		ItemCount: snap.ItemCount,
	}
	for _, li := range snap.Items {
		out.Items = append(out.Items, lineItemJSON{
			ProductID: li.Product.ID,
			Name:      li.Product.Name,
			NameKR:    li.Product.NameKR,
			Color:     li.Product.Color,
			UnitPrice: li.Product.Price.Amount,
			Quantity:  li.Quantity,
			LineTotal: li.LineTotal(),
		})
	}
	return out
}
