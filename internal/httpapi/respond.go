package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"hiring/sourcing-service/internal/backend"
	"hiring/sourcing-service/internal/lifecycle"
	"hiring/sourcing-service/internal/monitor"
	"hiring/sourcing-service/internal/outreach"
	"hiring/sourcing-service/internal/savedsearch"
	"hiring/sourcing-service/internal/search"
	"hiring/sourcing-service/internal/view"
)

func jsonOK(w http.ResponseWriter, v any) {
	jsonStatus(w, http.StatusOK, v)
}

func jsonStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	jsonStatus(w, code, map[string]string{"error": msg})
}

// decode reads the JSON body into dst and validates it. An empty body is
// accepted for requests whose fields are all optional.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return false
		}
	}
	if err := h.validate.StructCtx(r.Context(), dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			jsonError(w, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()), http.StatusBadRequest)
			return false
		}
		jsonError(w, "validation error", http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps domain errors to HTTP status codes. The session has
// already recorded a notice for failures the user should see.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *lifecycle.ValidationError
	var sve *savedsearch.ValidationError
	var he *backend.HTTPError
	var ke *search.KeywordError

	switch {
	case errors.As(err, &ve):
		jsonError(w, ve.Msg, http.StatusBadRequest)
	case errors.As(err, &sve):
		jsonError(w, sve.Msg, http.StatusBadRequest)
	case errors.Is(err, monitor.ErrInvalidWindow), errors.Is(err, outreach.ErrUnknownTemplate):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, view.ErrCandidateNotFound), errors.Is(err, savedsearch.ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, lifecycle.ErrActionDisabled):
		jsonError(w, err.Error(), http.StatusNotImplemented)
	case errors.Is(err, lifecycle.ErrActionNotAllowed),
		errors.Is(err, view.ErrBusy),
		errors.Is(err, view.ErrNoDialog):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, outreach.ErrNoTemplates):
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, monitor.ErrScanTimedOut):
		jsonError(w, monitor.UserMessage(err), http.StatusGatewayTimeout)
	case errors.Is(err, monitor.ErrScanFailed):
		jsonError(w, monitor.UserMessage(err), http.StatusBadGateway)
	case errors.As(err, &ke), errors.As(err, &he):
		slog.Warn("backend request failed", "path", r.URL.Path, "err", err)
		jsonError(w, "backend request failed", http.StatusBadGateway)
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
	}
}
