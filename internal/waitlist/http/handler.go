package http

import (
	"errors"
	"net/http"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lockin-coffee/storefront/internal/waitlist/app"
	"github.com/lockin-coffee/storefront/internal/waitlist/domain"
	"github.com/lockin-coffee/storefront/pkg/httpx"
)

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/waitlist", h.submit)
}

type submitRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Source    string `json:"source"`
	Product   string `json:"product"`
	Timestamp string `json:"timestamp"`
}

type submitResponse struct {
	Accepted bool `json:"accepted"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	entry := domain.Entry{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Source:  domain.Source(req.Source),
		Product: req.Product,
	}
	if req.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			entry.Timestamp = ts
		}
	}

	if err := h.svc.Submit(entry); err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			httpx.WriteError(w, status.Error(codes.InvalidArgument, "name and a valid email are required"))
			return
		}
		httpx.WriteError(w, status.Error(codes.Internal, "internal error"))
		return
	}

	// Accepted means enqueued: delivery is fire-and-forget.
	httpx.WriteJSON(w, http.StatusAccepted, submitResponse{Accepted: true})
}
