package httpapi

import (
	"net/http"
)

type languageRequest struct {
	Language string `json:"language" validate:"required,oneof=en kr"`
}

type templateRequest struct {
	TemplateID string `json:"template_id" validate:"required"`
}

type messageRequest struct {
	Message *string `json:"message" validate:"required"`
}

type sendRequest struct {
	Channel string `json:"channel" validate:"omitempty,max=32"`
}

func (h *Handler) openOutreach(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateID(w, r)
	if !ok {
		return
	}
	s, ok := h.loadedSession(w, r)
	if !ok {
		return
	}
	d, err := s.OpenOutreach(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, d)
}

func (h *Handler) getOutreach(w http.ResponseWriter, r *http.Request) {
	d, ok := h.session(r).Outreach()
	if !ok {
		jsonError(w, "outreach dialog is not open", http.StatusNotFound)
		return
	}
	jsonOK(w, d)
}

// setLanguage works with or without an open dialog; without one it only
// changes the language the next dialog opens in.
func (h *Handler) setLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if !h.decode(w, r, &req) {
		return
	}
	s := h.session(r)
	d, err := s.SetLanguage(req.Language)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, open := s.Outreach(); !open {
		jsonOK(w, map[string]string{"language": s.Language()})
		return
	}
	jsonOK(w, d)
}

func (h *Handler) selectTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !h.decode(w, r, &req) {
		return
	}
	d, err := h.session(r).SelectTemplate(req.TemplateID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, d)
}

func (h *Handler) editMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if !h.decode(w, r, &req) {
		return
	}
	d, err := h.session(r).EditMessage(*req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, d)
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if !h.decode(w, r, &req) {
		return
	}
	to, err := h.session(r).Send(r.Context(), req.Channel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, map[string]any{"status": to})
}

func (h *Handler) skip(w http.ResponseWriter, r *http.Request) {
	to, err := h.session(r).Skip(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, map[string]any{"status": to})
}

func (h *Handler) closeOutreach(w http.ResponseWriter, r *http.Request) {
	h.session(r).CloseOutreach()
	w.WriteHeader(http.StatusNoContent)
}
