package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"workflow/internal/domain/services"
	workspaceSvc "workflow/internal/domain/services/workspace"
	"workflow/internal/httputil"
)

// CanvasHandler handles canvas HTTP requests
type CanvasHandler struct {
	canvasService workspaceSvc.CanvasService
	logger        *slog.Logger
}

// NewCanvasHandler creates a new canvas handler
func NewCanvasHandler(canvasService workspaceSvc.CanvasService, logger *slog.Logger) *CanvasHandler {
	return &CanvasHandler{
		canvasService: canvasService,
		logger:        logger,
	}
}

// updateCanvasBody is the PATCH body; description distinguishes absent from null
type updateCanvasBody struct {
	Name        *string                 `json:"name"`
	Content     json.RawMessage         `json:"content"`
	Description httputil.OptionalString `json:"description"`
}

// ListCanvases lists the user's canvases
// GET /api/canvases
func (h *CanvasHandler) ListCanvases(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	canvases, err := h.canvasService.ListCanvases(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, canvases)
}

// SaveCanvas creates a canvas
// POST /api/canvases
func (h *CanvasHandler) SaveCanvas(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req workspaceSvc.SaveCanvasRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = userID

	canvas, err := h.canvasService.SaveCanvas(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, canvas)
}

// GetCanvas retrieves a canvas
// GET /api/canvases/{id}
func (h *CanvasHandler) GetCanvas(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Canvas")
	if !ok {
		return
	}

	canvas, err := h.canvasService.GetCanvas(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, canvas)
}

// UpdateCanvas applies a partial update
// PATCH /api/canvases/{id}
func (h *CanvasHandler) UpdateCanvas(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Canvas")
	if !ok {
		return
	}

	var body updateCanvasBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if string(body.Content) == "null" {
		body.Content = nil
	}

	canvas, err := h.canvasService.UpdateCanvas(r.Context(), userID, id, &workspaceSvc.UpdateCanvasRequest{
		Name:    body.Name,
		Content: body.Content,
		Description: services.OptionalString{
			Present: body.Description.Present,
			Value:   body.Description.Value,
		},
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, canvas)
}

// DeleteCanvas deletes a canvas
// DELETE /api/canvases/{id}
func (h *CanvasHandler) DeleteCanvas(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Canvas")
	if !ok {
		return
	}

	if err := h.canvasService.DeleteCanvas(r.Context(), userID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
