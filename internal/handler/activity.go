package handler

import (
	"log/slog"
	"net/http"
	"time"

	"workflow/internal/domain/services"
	"workflow/internal/httputil"
)

// ActivityHandler serves the activity feed and caller identity
type ActivityHandler struct {
	activityService services.ActivityService
	logger          *slog.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService services.ActivityService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// ListActivities returns the newest entries first
// GET /api/activities?limit=
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	activities, err := h.activityService.ListRecent(r.Context(), userID, intQuery(r, "limit", 0))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, activities)
}

// Me returns the verified caller identity
// GET /api/me
func (h *ActivityHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := httputil.GetClaims(r)
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, claims.Identity())
}

// HealthCheck is a simple health check endpoint
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now(),
	})
}
