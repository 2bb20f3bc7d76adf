package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode"

	"github.com/eldtechnologies/inboxdesk/internal/inbox"
	"github.com/eldtechnologies/inboxdesk/internal/session"
	"github.com/eldtechnologies/inboxdesk/internal/store"
)

// maxTextLen bounds search and compose text, in runes.
const maxTextLen = 4000

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	sessions *session.Service
	source   store.DatasetSource // nil when serving the built-in seed
}

// NewHandler creates a new Handler. source may be nil.
func NewHandler(sessions *session.Service, source store.DatasetSource) *Handler {
	return &Handler{sessions: sessions, source: source}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// Fail maps an error from the session service to a response.
func (h *Handler) Fail(w http.ResponseWriter, err error) {
	switch {
	case inbox.IsNotice(err):
		h.JSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":  "notice",
			"notice": err.Error(),
		})
	case errors.Is(err, session.ErrNotFound):
		h.Error(w, http.StatusNotFound, "session not found")
	case errors.Is(err, inbox.ErrUnknownConversation):
		h.Error(w, http.StatusNotFound, "conversation not found")
	case errors.Is(err, inbox.ErrUnsupported),
		errors.Is(err, inbox.ErrInvalidResolution),
		errors.Is(err, inbox.ErrUnknownProfile),
		errors.Is(err, inbox.ErrUnknownLabel),
		errors.Is(err, inbox.ErrUnknownSubView),
		errors.Is(err, inbox.ErrUnknownVariant):
		h.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// sanitizeText removes control characters other than newlines and tabs and
// limits text to maxTextLen runes.
func sanitizeText(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)

	if runes := []rune(s); len(runes) > maxTextLen {
		s = string(runes[:maxTextLen])
	}
	return s
}
