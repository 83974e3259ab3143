package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"workflow/internal/domain"
	"workflow/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var persistenceErr *domain.PersistenceError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &persistenceErr):
		// The driver error stays in the logs
		slog.Error("persistence failure", "message", persistenceErr.Message, "error", persistenceErr.Err)
		httputil.RespondError(w, http.StatusInternalServerError, persistenceErr.Message)
	default:
		slog.Error("unexpected error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireUserID returns the authenticated owner, answering 401 when absent
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return userID, true
}

// pathID reads the {id} path segment, answering 400 when empty
func pathID(w http.ResponseWriter, r *http.Request, resource string) (string, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, resource+" ID is required")
		return "", false
	}
	return id, true
}

// optionalQuery returns a pointer to a non-empty query parameter.
// "null" and "root" are accepted as explicit root markers.
func optionalQuery(r *http.Request, name string) *string {
	value := strings.TrimSpace(r.URL.Query().Get(name))
	if value == "" || value == "null" || value == "root" {
		return nil
	}
	return &value
}

// intQuery parses an integer query parameter, returning fallback when absent or invalid
func intQuery(r *http.Request, name string, fallback int) int {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
