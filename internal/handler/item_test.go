package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"workflow/internal/domain"
	workspace "workflow/internal/domain/models/workspace"
	workspaceSvc "workflow/internal/domain/services/workspace"
	"workflow/internal/httputil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubItemService records calls and returns canned results
type stubItemService struct {
	err error

	gotUserID   string
	gotItemID   string
	gotParentID *string
	gotName     string
	gotFolder   *workspaceSvc.CreateFolderRequest
	gotFile     *workspaceSvc.CreateFileRequest
}

func (s *stubItemService) CreateFolder(_ context.Context, req *workspaceSvc.CreateFolderRequest) (*workspace.Item, error) {
	s.gotFolder = req
	if s.err != nil {
		return nil, s.err
	}
	folder := workspace.NewFolder(req.UserID, req.Name, req.ParentID)
	folder.ID = "f1"
	return folder, nil
}

func (s *stubItemService) CreateFile(_ context.Context, req *workspaceSvc.CreateFileRequest) (*workspace.Item, error) {
	s.gotFile = req
	if s.err != nil {
		return nil, s.err
	}
	file := workspace.NewFile(req.UserID, req.Name, req.ParentID, workspace.FileAttributes{FileType: req.FileType, FileURL: req.FileURL})
	file.ID = "a1"
	return file, nil
}

func (s *stubItemService) GetItem(_ context.Context, userID, itemID string) (*workspace.Item, error) {
	s.gotUserID, s.gotItemID = userID, itemID
	if s.err != nil {
		return nil, s.err
	}
	return &workspace.Item{ID: itemID, UserID: userID, Kind: workspace.KindFolder, Name: "Docs"}, nil
}

func (s *stubItemService) ListChildren(_ context.Context, userID string, parentID *string) ([]workspace.Item, error) {
	s.gotUserID, s.gotParentID = userID, parentID
	if s.err != nil {
		return nil, s.err
	}
	return []workspace.Item{}, nil
}

func (s *stubItemService) Rename(_ context.Context, userID, itemID, name string) (*workspace.Item, error) {
	s.gotUserID, s.gotItemID, s.gotName = userID, itemID, name
	if s.err != nil {
		return nil, s.err
	}
	return &workspace.Item{ID: itemID, UserID: userID, Kind: workspace.KindFolder, Name: name}, nil
}

func (s *stubItemService) Move(_ context.Context, userID, itemID string, parentID *string) (*workspace.Item, error) {
	s.gotUserID, s.gotItemID, s.gotParentID = userID, itemID, parentID
	if s.err != nil {
		return nil, s.err
	}
	return &workspace.Item{ID: itemID, UserID: userID, Kind: workspace.KindFolder, Name: "Docs", ParentID: parentID}, nil
}

func (s *stubItemService) Delete(_ context.Context, userID, itemID string) (*workspaceSvc.DeleteResult, error) {
	s.gotUserID, s.gotItemID = userID, itemID
	if s.err != nil {
		return nil, s.err
	}
	return &workspaceSvc.DeleteResult{ID: itemID, Message: "Item deleted successfully", Deleted: 3}, nil
}

func newItemRouter(svc workspaceSvc.ItemService) http.Handler {
	h := NewItemHandler(svc, nil, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/items", h.ListItems)
	mux.HandleFunc("POST /api/items/folder", h.CreateFolder)
	mux.HandleFunc("POST /api/items/file", h.CreateFile)
	mux.HandleFunc("POST /api/items/upload", h.Upload)
	mux.HandleFunc("GET /api/items/{id}", h.GetItem)
	mux.HandleFunc("PUT /api/items/{id}/rename", h.RenameItem)
	mux.HandleFunc("PUT /api/items/{id}/move", h.MoveItem)
	mux.HandleFunc("DELETE /api/items/{id}", h.DeleteItem)
	return mux
}

func serve(t *testing.T, router http.Handler, method, target, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if userID != "" {
		req = httputil.WithUserID(req, userID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateFolderHandler(t *testing.T) {
	svc := &stubItemService{}
	rec := serve(t, newItemRouter(svc), http.MethodPost, "/api/items/folder",
		`{"name":"Docs","parent_id":null,"user_id":"spoofed"}`, "u1")

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "u1", svc.gotFolder.UserID, "owner comes from the token, never the body")
	assert.Nil(t, svc.gotFolder.ParentID)

	body := decodeBody(t, rec)
	assert.Equal(t, "f1", body["id"])
	assert.Equal(t, "folder", body["type"])
	assert.Equal(t, "Docs", body["name"])
	assert.Nil(t, body["parent_id"])
	assert.NotContains(t, body, "file_type")
}

func TestCreateFileHandler(t *testing.T) {
	svc := &stubItemService{}
	rec := serve(t, newItemRouter(svc), http.MethodPost, "/api/items/file",
		`{"name":"a.txt","file_type":"text","file_url":"https://x/a.txt","parent_id":"f1"}`, "u1")

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.gotFile.ParentID)
	assert.Equal(t, "f1", *svc.gotFile.ParentID)

	body := decodeBody(t, rec)
	assert.Equal(t, "file", body["type"])
	assert.Equal(t, "text", body["file_type"])
	assert.Equal(t, "https://x/a.txt", body["file_url"])
}

func TestListItemsHandler_ParentQuery(t *testing.T) {
	tests := []struct {
		query string
		want  *string
	}{
		{"", nil},
		{"?parent_id=", nil},
		{"?parent_id=null", nil},
		{"?parent_id=root", nil},
		{"?parent_id=f1", strPtr("f1")},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			svc := &stubItemService{}
			rec := serve(t, newItemRouter(svc), http.MethodGet, "/api/items"+tt.query, "", "u1")

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
			assert.Equal(t, tt.want, svc.gotParentID)
		})
	}
}

func TestItemHandlers_RequireAuthentication(t *testing.T) {
	router := newItemRouter(&stubItemService{})
	requests := []struct{ method, target, body string }{
		{http.MethodGet, "/api/items", ""},
		{http.MethodPost, "/api/items/folder", `{"name":"x"}`},
		{http.MethodGet, "/api/items/f1", ""},
		{http.MethodPut, "/api/items/f1/rename", `{"name":"x"}`},
		{http.MethodPut, "/api/items/f1/move", `{}`},
		{http.MethodDelete, "/api/items/f1", ""},
	}

	for _, r := range requests {
		rec := serve(t, router, r.method, r.target, r.body, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", r.method, r.target)
	}
}

func TestMoveItemHandler(t *testing.T) {
	svc := &stubItemService{}
	router := newItemRouter(svc)

	rec := serve(t, router, http.MethodPut, "/api/items/a1/move", `{"parent_id":"f2"}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a1", svc.gotItemID)
	assert.Equal(t, strPtr("f2"), svc.gotParentID)

	rec = serve(t, router, http.MethodPut, "/api/items/a1/move", `{"parent_id":null}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.gotParentID)
}

func TestRenameItemHandler(t *testing.T) {
	svc := &stubItemService{}
	rec := serve(t, newItemRouter(svc), http.MethodPut, "/api/items/f1/rename", `{"name":"Papers"}`, "u1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Papers", svc.gotName)
	assert.Equal(t, "Papers", decodeBody(t, rec)["name"])
}

func TestDeleteItemHandler(t *testing.T) {
	svc := &stubItemService{}
	rec := serve(t, newItemRouter(svc), http.MethodDelete, "/api/items/f1", "", "u1")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "f1", body["id"])
	assert.Equal(t, "Item deleted successfully", body["message"])
	assert.Equal(t, float64(3), body["deleted"])
}

func TestItemHandlers_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"not found", &domain.NotFoundError{Message: "item f1 not found"}, http.StatusNotFound, "item f1 not found"},
		{"validation", &domain.ValidationError{Message: "name cannot be empty"}, http.StatusBadRequest, "name cannot be empty"},
		{"wrapped validation", errors.Join(domain.ErrValidation, errors.New("cycle")), http.StatusBadRequest, ""},
		{"persistence", domain.NewPersistenceError("failed to delete item", errors.New("pq: deadlock detected")), http.StatusInternalServerError, "failed to delete item"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubItemService{err: tt.err}
			rec := serve(t, newItemRouter(svc), http.MethodDelete, "/api/items/f1", "", "u1")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			body := decodeBody(t, rec)
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, body["detail"])
			}
			assert.NotContains(t, rec.Body.String(), "deadlock")
		})
	}
}

func TestItemHandlers_InvalidBody(t *testing.T) {
	svc := &stubItemService{}
	rec := serve(t, newItemRouter(svc), http.MethodPost, "/api/items/folder", `{"name":`, "u1")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.gotFolder)
}

func TestUploadHandler_Disabled(t *testing.T) {
	rec := serve(t, newItemRouter(&stubItemService{}), http.MethodPost, "/api/items/upload", "", "u1")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func strPtr(s string) *string { return &s }
