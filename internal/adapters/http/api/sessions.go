package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/floorwatch/internal/platform/i18n"
)

// IdempotencyKeyHeader makes a new batch press safe to retry.
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLen = 128

// SessionsHandler serves the dashboard session endpoints.
type SessionsHandler struct {
	deps Dependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleOpen handles POST /api/sessions.
func (h *SessionsHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	sess, err := h.deps.Open(r.Context(), i18n.ResolveTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, sess)
}

// HandleView handles GET /api/sessions/{id}?since=N.
func (h *SessionsHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	const op = "api.view_session"
	since := 0
	if raw := r.URL.Query().Get("since"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeServiceError(w, WrapKind(op, ErrBadRequest, errInvalidSince(raw)))
			return
		}
		since = n
	}
	v, err := h.deps.View(r.Context(), r.PathValue("id"), since, i18n.ResolveTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleToggle handles POST /api/sessions/{id}/toggle.
func (h *SessionsHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Toggle(r.Context(), r.PathValue("id"), i18n.ResolveTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleBatch handles POST /api/sessions/{id}/batch.
func (h *SessionsHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.new_batch"
	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLen {
		writeServiceError(w, NewKind(op, ErrBadRequest))
		return
	}
	res, err := h.deps.NewBatch(r.Context(), r.PathValue("id"), key, i18n.ResolveTag(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleClose handles DELETE /api/sessions/{id}.
func (h *SessionsHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Close(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type errInvalidSince string

func (e errInvalidSince) Error() string {
	return "since must be a non-negative integer, got " + strconv.Quote(string(e))
}
