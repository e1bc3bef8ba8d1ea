package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hiring/sourcing-service/internal/lifecycle"
	"hiring/sourcing-service/internal/model"
	"hiring/sourcing-service/internal/view"
)

type keywordRequest struct {
	Keyword string `json:"keyword" validate:"required,max=200"`
}

type searchRequest struct {
	Keyword string `json:"keyword" validate:"max=200"`
}

type candidatesResponse struct {
	Filter     lifecycle.Status  `json:"filter"`
	Candidates []model.Candidate `json:"candidates"`
	Expanded   int64             `json:"expanded,omitempty"`
}

func (h *Handler) session(r *http.Request) *view.Session {
	return h.sessions.Session(userID(r))
}

// loadedSession returns the caller's session with its candidate list
// loaded, so row lookups have something to match against.
func (h *Handler) loadedSession(w http.ResponseWriter, r *http.Request) (*view.Session, bool) {
	s := h.session(r)
	if _, err := s.Candidates(r.Context()); err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return s, true
}

func candidateID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, "invalid candidate id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// ─── Keywords ────────────────────────────────────────────────────────────────

func (h *Handler) listKeywords(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, map[string]any{"keywords": h.session(r).Keywords()})
}

func (h *Handler) addKeyword(w http.ResponseWriter, r *http.Request) {
	var req keywordRequest
	if !h.decode(w, r, &req) {
		return
	}
	s := h.session(r)
	added := s.AddKeyword(req.Keyword)
	jsonOK(w, map[string]any{"added": added, "keywords": s.Keywords()})
}

func (h *Handler) removeKeyword(w http.ResponseWriter, r *http.Request) {
	kw := r.URL.Query().Get("keyword")
	if kw == "" {
		jsonError(w, "keyword query parameter is required", http.StatusBadRequest)
		return
	}
	s := h.session(r)
	removed := s.RemoveKeyword(kw)
	jsonOK(w, map[string]any{"removed": removed, "keywords": s.Keywords()})
}

func (h *Handler) suggestions(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, map[string]any{"suggestions": h.session(r).CatalogSuggestions()})
}

// ─── Search ──────────────────────────────────────────────────────────────────

func (h *Handler) searchOne(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.session(r).SearchOne(r.Context(), req.Keyword)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, res)
}

func (h *Handler) searchAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.session(r).SearchAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, res)
}

func (h *Handler) lastResult(w http.ResponseWriter, r *http.Request) {
	res, ok := h.session(r).LastResult()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	jsonOK(w, res)
}

// ─── Candidates ──────────────────────────────────────────────────────────────

// listCandidates returns the list for the current filter. A status query
// parameter, even an empty one, replaces the filter first.
func (h *Handler) listCandidates(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	if q := r.URL.Query(); q.Has("status") {
		if err := s.SetFilter(r.Context(), lifecycle.Status(q.Get("status"))); err != nil {
			writeError(w, r, err)
			return
		}
	}
	list, err := s.Candidates(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, candidatesResponse{Filter: s.Filter(), Candidates: list, Expanded: s.Expanded()})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)
	if err := s.Refresh(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	list, _ := s.Candidates(r.Context())
	jsonOK(w, candidatesResponse{Filter: s.Filter(), Candidates: list, Expanded: s.Expanded()})
}

func (h *Handler) actions(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateID(w, r)
	if !ok {
		return
	}
	s, ok := h.loadedSession(w, r)
	if !ok {
		return
	}
	set, err := s.Actions(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, set)
}

// applyAction performs a row action. prepare_outreach answers with the
// opened dialog; other actions answer with the confirmed status.
func (h *Handler) applyAction(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateID(w, r)
	if !ok {
		return
	}
	action, err := lifecycle.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s, ok := h.loadedSession(w, r)
	if !ok {
		return
	}
	if action == lifecycle.ActionPrepareOutreach {
		d, err := s.PrepareOutreach(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		jsonOK(w, d)
		return
	}
	to, err := s.Apply(r.Context(), id, action)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, map[string]any{"id": id, "status": to})
}

func (h *Handler) expand(w http.ResponseWriter, r *http.Request) {
	id, ok := candidateID(w, r)
	if !ok {
		return
	}
	entries, err := h.session(r).Expand(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, map[string]any{"candidateId": id, "history": entries})
}

func (h *Handler) collapse(w http.ResponseWriter, r *http.Request) {
	h.session(r).Collapse()
	w.WriteHeader(http.StatusNoContent)
}

// ─── Bridge and notices ──────────────────────────────────────────────────────

func (h *Handler) bridge(w http.ResponseWriter, r *http.Request) {
	res, err := h.session(r).Bridge(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonOK(w, map[string]any{"result": res, "summary": view.BridgeSummary(res)})
}

func (h *Handler) notice(w http.ResponseWriter, r *http.Request) {
	n, ok := h.session(r).Notice()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	jsonOK(w, n)
}

func (h *Handler) dismissNotice(w http.ResponseWriter, r *http.Request) {
	h.session(r).DismissNotice()
	w.WriteHeader(http.StatusNoContent)
}
