package handler

import (
	"log/slog"
	"net/http"

	workspaceSvc "workflow/internal/domain/services/workspace"
	"workflow/internal/httputil"
)

// ItemHandler handles item tree HTTP requests
type ItemHandler struct {
	itemService   workspaceSvc.ItemService
	uploadService workspaceSvc.UploadService // nil when uploads are not configured
	maxUpload     int64
	logger        *slog.Logger
}

// NewItemHandler creates a new item handler. uploadService may be nil.
func NewItemHandler(
	itemService workspaceSvc.ItemService,
	uploadService workspaceSvc.UploadService,
	maxUpload int64,
	logger *slog.Logger,
) *ItemHandler {
	return &ItemHandler{
		itemService:   itemService,
		uploadService: uploadService,
		maxUpload:     maxUpload,
		logger:        logger,
	}
}

// renameRequest is the body of PUT /api/items/{id}/rename
type renameRequest struct {
	Name string `json:"name"`
}

// moveRequest is the body of PUT /api/items/{id}/move. A null or missing
// parent_id moves the item to the root level.
type moveRequest struct {
	ParentID *string `json:"parent_id"`
}

// ListItems lists the direct children of a folder, or the root level
// GET /api/items?parent_id=
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	items, err := h.itemService.ListChildren(r.Context(), userID, optionalQuery(r, "parent_id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, items)
}

// GetItem retrieves a single item
// GET /api/items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Item")
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// CreateFolder creates a folder
// POST /api/items/folder
func (h *ItemHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req workspaceSvc.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = userID

	folder, err := h.itemService.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// CreateFile creates a file entry for contents stored elsewhere
// POST /api/items/file
func (h *ItemHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req workspaceSvc.CreateFileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = userID

	file, err := h.itemService.CreateFile(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, file)
}

// Upload stores a multipart file and creates its item
// POST /api/items/upload (form fields: file, parent_id)
func (h *ItemHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if h.uploadService == nil {
		httputil.RespondError(w, http.StatusNotFound, "uploads are not enabled")
		return
	}

	// Multipart overhead on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	var parentID *string
	if value := r.FormValue("parent_id"); value != "" && value != "null" {
		parentID = &value
	}

	item, err := h.uploadService.Upload(r.Context(), &workspaceSvc.UploadRequest{
		UserID:      userID,
		ParentID:    parentID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, item)
}

// Download redirects to a short-lived link to the file's contents
// GET /api/items/{id}/download
func (h *ItemHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Item")
	if !ok {
		return
	}
	if h.uploadService == nil {
		httputil.RespondError(w, http.StatusNotFound, "uploads are not enabled")
		return
	}

	url, err := h.uploadService.DownloadURL(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}

// RenameItem changes an item's name
// PUT /api/items/{id}/rename
func (h *ItemHandler) RenameItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Item")
	if !ok {
		return
	}

	var req renameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.itemService.Rename(r.Context(), userID, id, req.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// MoveItem re-parents an item
// PUT /api/items/{id}/move
func (h *ItemHandler) MoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Item")
	if !ok {
		return
	}

	var req moveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.itemService.Move(r.Context(), userID, id, req.ParentID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// DeleteItem deletes an item and, for folders, everything under it
// DELETE /api/items/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Item")
	if !ok {
		return
	}

	result, err := h.itemService.Delete(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
