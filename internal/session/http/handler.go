package http

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lockin-coffee/storefront/internal/session"
	"github.com/lockin-coffee/storefront/pkg/httpx"
)

// Header carries the session id on every session-scoped request.
const Header = "X-Session-ID"

type Handler struct {
	sessions *session.Manager
}

func NewHandler(sessions *session.Manager) *Handler {
	return &Handler{sessions: sessions}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/session", h.create)
	mux.HandleFunc("DELETE /api/session", h.drop)
}

type createResponse struct {
	SessionID string `json:"session_id"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	httpx.WriteJSON(w, http.StatusCreated, createResponse{SessionID: s.ID})
}

func (h *Handler) drop(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(Header)
	if id == "" {
		httpx.WriteError(w, status.Error(codes.InvalidArgument, "missing session header"))
		return
	}
	h.sessions.Drop(id)
	w.WriteHeader(http.StatusNoContent)
}

// Resolve looks up the request's session by header. Shared by every
// session-scoped handler.
func Resolve(m *session.Manager, r *http.Request) (*session.Session, error) {
	id := r.Header.Get(Header)
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "missing session header")
	}
	s, err := m.Get(id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "unknown session")
		}
		return nil, status.Error(codes.Internal, "internal error")
	}
	return s, nil
}
