package web

// errors.go provides unified error response handling for the web layer.
//
// Handlers call respondError with the error they got. The error is mapped
// via core.MapError to a user-facing message and code, the HTTP status is
// derived from the same error, the technical error is logged with the
// request id, and the message is rendered as an HTMX fragment, JSON or
// plain text depending on the request.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/costdraft/internal/catalog"
	"github.com/JonMunkholm/costdraft/internal/core"
	"github.com/JonMunkholm/costdraft/internal/featured"
	"github.com/JonMunkholm/costdraft/internal/logging"
	"github.com/JonMunkholm/costdraft/internal/preset"
	"github.com/JonMunkholm/costdraft/internal/tabular"
	"github.com/JonMunkholm/costdraft/internal/web/views"
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	// Entries lists per-entry problems for featured list validation.
	Entries []featured.ValidationError `json:"entries,omitempty"`
	// Highlight holds the positions of the offending entries, once each.
	Highlight []int `json:"highlight,omitempty"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var verrs *featured.ValidationErrors
	switch {
	case errors.Is(err, tabular.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, tabular.ErrUnreadable),
		errors.Is(err, tabular.ErrEmptyFile),
		errors.Is(err, core.ErrInvalidRequest),
		errors.Is(err, featured.ErrInvalidBreakpoint),
		errors.Is(err, preset.ErrInvalidName):
		return http.StatusBadRequest
	case errors.As(err, &verrs), errors.Is(err, featured.ErrInvalidCosts):
		return http.StatusUnprocessableEntity
	case errors.Is(err, preset.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, preset.ErrQuotaExceeded), errors.Is(err, preset.ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, core.ErrTooManyImports), errors.Is(err, core.ErrNoCatalog):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrCatalogFetch), errors.Is(err, catalog.ErrEmptyCatalog):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes a user-friendly response in the format
// the client asked for.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	log := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if status >= http.StatusInternalServerError {
		log.Error("request error", attrs...)
	} else {
		log.Warn("request rejected", attrs...)
	}

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}

	switch {
	case isHTMX(r):
		renderErrorPartial(w, r, userMsg, status)
	case wantsJSON(r):
		respondErrorJSON(w, err, userMsg, status)
	default:
		http.Error(w, userMsg.Message+" ("+userMsg.Code+")", status)
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, err error, msg core.UserMessage, status int) {
	resp := ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}
	var verrs *featured.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Entries = verrs.Items
		resp.Highlight = verrs.Indexes()
	}
	writeJSON(w, status, resp)
}

// renderErrorPartial renders an HTMX-compatible error fragment.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg core.UserMessage, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := views.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error alert", "error", err)
	}
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}
