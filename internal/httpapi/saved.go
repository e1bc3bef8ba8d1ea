package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type createSavedRequest struct {
	Name     string   `json:"name" validate:"required,max=100"`
	Keywords []string `json:"keywords" validate:"required,min=1,dive,max=200"`
}

type activeRequest struct {
	Active *bool `json:"active" validate:"required"`
}

func (h *Handler) listSaved(w http.ResponseWriter, r *http.Request) {
	list, err := h.saved.ListByUser(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, map[string]any{"savedSearches": list})
}

func (h *Handler) createSaved(w http.ResponseWriter, r *http.Request) {
	var req createSavedRequest
	if !h.decode(w, r, &req) {
		return
	}
	s, err := h.saved.Create(r.Context(), userID(r), req.Name, req.Keywords)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonStatus(w, http.StatusCreated, s)
}

func (h *Handler) setSavedActive(w http.ResponseWriter, r *http.Request) {
	var req activeRequest
	if !h.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.saved.SetActive(r.Context(), userID(r), id, *req.Active); err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, map[string]any{"id": id, "isActive": *req.Active})
}

func (h *Handler) deleteSaved(w http.ResponseWriter, r *http.Request) {
	if err := h.saved.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// runSaved runs one saved search now and records it like a scheduled run.
func (h *Handler) runSaved(w http.ResponseWriter, r *http.Request) {
	s, err := h.saved.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	rep, err := h.runner.Run(r.Context(), s)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, rep)
}
