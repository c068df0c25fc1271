package http

import (
	"net/http"

	"github.com/lockin-coffee/storefront/internal/session"
	sessionhttp "github.com/lockin-coffee/storefront/internal/session/http"
	"github.com/lockin-coffee/storefront/pkg/httpx"
)

// Handler feeds viewport-visibility measurements from the front end into the
// session's watcher.
type Handler struct {
	sessions *session.Manager
}

func NewHandler(sessions *session.Manager) *Handler {
	return &Handler{sessions: sessions}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/view", h.view)
}

type viewRequest struct {
	ProductID string  `json:"product_id"`
	Ratio     float64 `json:"ratio"`
}

type viewResponse struct {
	Added bool `json:"added"`
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	s, err := sessionhttp.Resolve(h.sessions, r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	var req viewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	added := s.Watcher.Observe(r.Context(), req.ProductID, req.Ratio)
	httpx.WriteJSON(w, http.StatusOK, viewResponse{Added: added})
}
