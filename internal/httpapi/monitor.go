package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hiring/sourcing-service/internal/monitor"
)

func (h *Handler) monitorCandidates(w http.ResponseWriter, r *http.Request) {
	m := h.sessions.Monitor(userID(r))
	list, err := m.SetWindow(r.Context(), r.URL.Query().Get("activity_within"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, map[string]any{"activityWithin": m.Window(), "candidates": list, "expanded": m.Expanded()})
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	records, err := h.sessions.Monitor(userID(r)).Expand(r.Context(), username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, map[string]any{"username": username, "activities": records})
}

func (h *Handler) monitorCollapse(w http.ResponseWriter, r *http.Request) {
	h.sessions.Monitor(userID(r)).Collapse()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) scan(w http.ResponseWriter, r *http.Request) {
	res, err := h.sessions.Monitor(userID(r)).Scan(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, map[string]any{"result": res, "summary": monitor.Summary(res)})
}

func (h *Handler) monitorNotice(w http.ResponseWriter, r *http.Request) {
	n, ok := h.sessions.Monitor(userID(r)).Notice()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	jsonOK(w, n)
}

func (h *Handler) monitorDismissNotice(w http.ResponseWriter, r *http.Request) {
	h.sessions.Monitor(userID(r)).DismissNotice()
	w.WriteHeader(http.StatusNoContent)
}
