package handler

import (
	"log/slog"
	"net/http"

	plannerSvc "workflow/internal/domain/services/planner"
	"workflow/internal/httputil"
)

// ScriptHandler handles saved script HTTP requests
type ScriptHandler struct {
	scriptService plannerSvc.ScriptService
	logger        *slog.Logger
}

// NewScriptHandler creates a new script handler
func NewScriptHandler(scriptService plannerSvc.ScriptService, logger *slog.Logger) *ScriptHandler {
	return &ScriptHandler{
		scriptService: scriptService,
		logger:        logger,
	}
}

// ListScripts GET /api/scripts
func (h *ScriptHandler) ListScripts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	scripts, err := h.scriptService.ListScripts(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, scripts)
}

// CreateScript POST /api/scripts
func (h *ScriptHandler) CreateScript(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req plannerSvc.CreateScriptRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = userID

	script, err := h.scriptService.CreateScript(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, script)
}

// GetScript GET /api/scripts/{id}
func (h *ScriptHandler) GetScript(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Script")
	if !ok {
		return
	}

	script, err := h.scriptService.GetScript(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, script)
}

// DeleteScript DELETE /api/scripts/{id}
func (h *ScriptHandler) DeleteScript(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Script")
	if !ok {
		return
	}

	if err := h.scriptService.DeleteScript(r.Context(), userID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
