package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eldtechnologies/inboxdesk/internal/ids"
	"github.com/eldtechnologies/inboxdesk/internal/inbox"
	"github.com/eldtechnologies/inboxdesk/internal/models"
)

// CreateSessionRequest is the request body for POST /sessions.
type CreateSessionRequest struct {
	Variant string `json:"variant"`
}

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	SessionID string     `json:"session_id"`
	View      inbox.View `json:"view"`
}

// SendResponse is returned by POST /sessions/{id}/send.
type SendResponse struct {
	View    inbox.View     `json:"view"`
	Message models.Message `json:"message"`
}

// CallResponse is returned by POST /sessions/{id}/call.
type CallResponse struct {
	View   inbox.View `json:"view"`
	Notice string     `json:"notice"`
}

// CreateSession handles POST /sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decode(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	variant, err := inbox.ParseVariant(req.Variant)
	if err != nil {
		h.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	id, view, err := h.sessions.Create(r.Context(), variant)
	if err != nil {
		h.Fail(w, err)
		return
	}

	h.JSON(w, http.StatusCreated, SessionResponse{SessionID: id, View: view})
}

// sessionID reads and validates the {id} URL parameter.
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !ids.ValidSessionID(id) {
		h.Error(w, http.StatusNotFound, "session not found")
		return "", false
	}
	return id, true
}

// GetSession handles GET /sessions/{id}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.sessions.View(r.Context(), id)
	h.respond(w, view, err)
}

// DeleteSession handles DELETE /sessions/{id}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Delete(r.Context(), id); err != nil {
		h.Fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respond(w http.ResponseWriter, view inbox.View, err error) {
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, view)
}
