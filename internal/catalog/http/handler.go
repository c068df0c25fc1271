package http

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lockin-coffee/storefront/internal/catalog/app"
	"github.com/lockin-coffee/storefront/internal/catalog/domain"
	"github.com/lockin-coffee/storefront/pkg/httpx"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.list)
	mux.HandleFunc("GET /api/products/{id}", h.get)
}

type moneyJSON struct {
	Currency string `json:"currency"`
	Amount   int64  `json:"amount"`
}

type productJSON struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	NameKR        string    `json:"name_kr"`
	Flavor        string    `json:"flavor"`
	Price         moneyJSON `json:"price"`
	OriginalPrice int64     `json:"original_price,omitempty"`
	TastingNotes  []string  `json:"tasting_notes,omitempty"`
	Description   string    `json:"description"`
	DescriptionKR string    `json:"description_kr"`
	Color         string    `json:"color"`
	Badge         string    `json:"badge,omitempty"`
	IsKit         bool      `json:"is_kit,omitempty"`
	Includes      []string  `json:"includes,omitempty"`
}

type listResponse struct {
	Version  string        `json:"version"`
	Products []productJSON `json:"products"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}

	out := listResponse{
		Version:  h.svc.CatalogVersion(),
		Products: make([]productJSON, 0, len(products)),
	}
	for _, p := range products {
		out.Products = append(out.Products, toJSON(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, mapErr(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toJSON(p))
}

func toJSON(p domain.Product) productJSON {
	return productJSON{
		ID:            p.ID,
		Name:          p.Name,
		NameKR:        p.NameKR,
		Flavor:        p.Flavor,
		Price:         moneyJSON{Currency: p.Price.Currency, Amount: p.Price.Amount},
		OriginalPrice: p.OriginalPrice,
		TastingNotes:  p.TastingNotes,
		Description:   p.Description,
		DescriptionKR: p.DescriptionKR,
		Color:         p.Color,
		Badge:         p.Badge,
		IsKit:         p.IsKit,
		Includes:      p.Includes,
	}
}

func mapErr(err error) error {
	if errors.Is(err, app.ErrInvalidInput) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if errors.Is(err, app.ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}
