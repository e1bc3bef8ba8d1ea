// Package httpapi implements the HTTP handlers of the sourcing service.
//
// All /sourcing and /monitor routes expect an x-user-id header forwarded by
// the gateway. Each user gets their own view.Session, so the handlers are a
// thin translation between JSON and session calls.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hiring/sourcing-service/internal/savedsearch"
	"hiring/sourcing-service/internal/search"
	"hiring/sourcing-service/internal/view"
)

// Version is reported by /health.
const Version = "1.0.0"

// Sessions hands out per-user page state.
type Sessions interface {
	Session(userID string) *view.Session
	Monitor(userID string) *view.MonitorSession
}

// SavedSearches is the saved-search store used by the handlers.
type SavedSearches interface {
	ListByUser(ctx context.Context, userID string) ([]savedsearch.SavedSearch, error)
	Get(ctx context.Context, userID, id string) (savedsearch.SavedSearch, error)
	Create(ctx context.Context, userID, name string, keywords []string) (savedsearch.SavedSearch, error)
	SetActive(ctx context.Context, userID, id string, active bool) error
	Delete(ctx context.Context, userID, id string) error
}

// SavedRunner runs one saved search on demand.
type SavedRunner interface {
	Run(ctx context.Context, s savedsearch.SavedSearch) (search.Report, error)
}

// Handler holds shared dependencies.
type Handler struct {
	sessions Sessions
	saved    SavedSearches
	runner   SavedRunner
	validate *validator.Validate
}

// NewHandler returns a configured Handler.
func NewHandler(sessions Sessions, saved SavedSearches, runner SavedRunner) *Handler {
	return &Handler{
		sessions: sessions,
		saved:    saved,
		runner:   runner,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes returns the service router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(instrument)

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/sourcing", func(r chi.Router) {
		r.Use(requireUser)

		r.Get("/keywords", h.listKeywords)
		r.Post("/keywords", h.addKeyword)
		r.Delete("/keywords", h.removeKeyword)
		r.Get("/keywords/suggestions", h.suggestions)

		r.Post("/search", h.searchOne)
		r.Post("/search/all", h.searchAll)
		r.Get("/search/last", h.lastResult)

		r.Get("/candidates", h.listCandidates)
		r.Post("/refresh", h.refresh)
		r.Get("/candidates/{id}/actions", h.actions)
		r.Post("/candidates/{id}/actions/{action}", h.applyAction)
		r.Get("/candidates/{id}/history", h.expand)
		r.Delete("/expanded", h.collapse)

		r.Post("/candidates/{id}/outreach", h.openOutreach)
		r.Get("/outreach", h.getOutreach)
		r.Put("/outreach/language", h.setLanguage)
		r.Put("/outreach/template", h.selectTemplate)
		r.Put("/outreach/message", h.editMessage)
		r.Post("/outreach/send", h.send)
		r.Post("/outreach/skip", h.skip)
		r.Delete("/outreach", h.closeOutreach)

		r.Post("/bridge", h.bridge)
		r.Get("/notice", h.notice)
		r.Delete("/notice", h.dismissNotice)

		r.Get("/saved-searches", h.listSaved)
		r.Post("/saved-searches", h.createSaved)
		r.Put("/saved-searches/{id}/active", h.setSavedActive)
		r.Delete("/saved-searches/{id}", h.deleteSaved)
		r.Post("/saved-searches/{id}/run", h.runSaved)
	})

	r.Route("/monitor", func(r chi.Router) {
		r.Use(requireUser)

		r.Get("/candidates", h.monitorCandidates)
		r.Get("/candidates/{username}/activities", h.activities)
		r.Delete("/expanded", h.monitorCollapse)
		r.Post("/scan", h.scan)
		r.Get("/notice", h.monitorNotice)
		r.Delete("/notice", h.monitorDismissNotice)
	})

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	jsonOK(w, map[string]string{
		"status":  "ok",
		"service": "sourcing-service",
		"version": Version,
	})
}
