package handlers

import (
	"net/http"
	"strings"

	"github.com/eldtechnologies/inboxdesk/internal/inbox"
)

// SetProfile handles PUT /sessions/{id}/profile.
func (h *Handler) SetProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Profile string `json:"profile"`
	}
	id, ok := h.read(w, r, &req)
	if !ok {
		return
	}
	p, err := inbox.ParseProfile(req.Profile)
	if err != nil {
		h.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.sessions.SetProfile(r.Context(), id, p)
	h.respond(w, view, err)
}

// SelectLabel handles PUT /sessions/{id}/label. Sending the active label
// again clears the filter.
func (h *Handler) SelectLabel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label string `json:"label"`
	}
	id, ok := h.read(w, r, &req)
	if !ok {
		return
	}
	l, err := inbox.ParseLabel(req.Label)
	if err != nil {
		h.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.sessions.SelectLabel(r.Context(), id, l)
	h.respond(w, view, err)
}

// Search handles PUT /sessions/{id}/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	id, ok := h.read(w, r, &req)
	if !ok {
		return
	}
	view, err := h.sessions.Search(r.Context(), id, sanitizeText(req.Query))
	h.respond(w, view, err)
}

// ToggleFilter handles POST /sessions/{id}/filter/toggle.
func (h *Handler) ToggleFilter(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.sessions.ToggleFilter(r.Context(), id)
	h.respond(w, view, err)
}

// ToggleSort handles POST /sessions/{id}/sort/toggle.
func (h *Handler) ToggleSort(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.sessions.ToggleSort(r.Context(), id)
	h.respond(w, view, err)
}

// Select handles PUT /sessions/{id}/selection.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConversationID string `json:"conversation_id"`
	}
	id, ok := h.read(w, r, &req)
	if !ok {
		return
	}
	if strings.TrimSpace(req.ConversationID) == "" {
		h.Error(w, http.StatusBadRequest, "conversation_id is required")
		return
	}
	view, err := h.sessions.Select(r.Context(), id, req.ConversationID)
	h.respond(w, view, err)
}

// SetSubView handles PUT /sessions/{id}/subview.
func (h *Handler) SetSubView(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubView string `json:"subview"`
	}
	id, ok := h.read(w, r, &req)
	if !ok {
		return
	}
	sv, err := inbox.ParseSubView(req.SubView)
	if err != nil {
		h.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.sessions.SetSubView(r.Context(), id, sv)
	h.respond(w, view, err)
}

// Resolve handles POST /sessions/{id}/resolution. Without a state it
// toggles the selected conversation.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		State string `json:"state"`
	}
	id, ok := h.read(w, r, &req)
	if !ok {
		return
	}
	state, err := inbox.ParseResolution(req.State)
	if req.State != "" && err != nil {
		h.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.sessions.Resolve(r.Context(), id, state)
	h.respond(w, view, err)
}

// Compose handles PUT /sessions/{id}/compose.
func (h *Handler) Compose(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	id, ok := h.read(w, r, &req)
	if !ok {
		return
	}
	view, err := h.sessions.Compose(r.Context(), id, sanitizeText(req.Text))
	h.respond(w, view, err)
}

// Attach handles POST /sessions/{id}/attachment. Only the file's name and
// media type travel; the bytes stay with the client.
func (h *Handler) Attach(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		MediaType string `json:"media_type"`
	}
	id, ok := h.read(w, r, &req)
	if !ok {
		return
	}
	name := sanitizeText(strings.TrimSpace(req.Name))
	if name == "" {
		h.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	view, err := h.sessions.Attach(r.Context(), id, inbox.File{Name: name, MediaType: req.MediaType})
	h.respond(w, view, err)
}

// Detach handles DELETE /sessions/{id}/attachment.
func (h *Handler) Detach(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	view, err := h.sessions.Detach(r.Context(), id)
	h.respond(w, view, err)
}

// Send handles POST /sessions/{id}/send. A text field replaces the composed
// text before sending.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text *string `json:"text"`
	}
	id, ok := h.read(w, r, &req)
	if !ok {
		return
	}
	if req.Text != nil {
		text := sanitizeText(*req.Text)
		req.Text = &text
	}
	view, msg, err := h.sessions.Send(r.Context(), id, req.Text)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, SendResponse{View: view, Message: msg})
}

// Call handles POST /sessions/{id}/call.
func (h *Handler) Call(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	view, notice, err := h.sessions.Call(r.Context(), id)
	if err != nil {
		h.Fail(w, err)
		return
	}
	h.JSON(w, http.StatusOK, CallResponse{View: view, Notice: notice})
}

// read validates the session ID and decodes the request body into v.
func (h *Handler) read(w http.ResponseWriter, r *http.Request, v interface{}) (string, bool) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return "", false
	}
	if err := decode(r, v); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return "", false
	}
	return id, true
}
