package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"workflow/internal/domain"
	models "workflow/internal/domain/models/workspace"
	workspaceSvc "workflow/internal/domain/services/workspace"
	"workflow/internal/storage"

	"github.com/google/uuid"
)

type uploadService struct {
	items    workspaceSvc.ItemService
	storage  storage.Storage
	maxBytes int64
	logger   *slog.Logger
}

// NewUploadService creates an upload service on top of the item tree
func NewUploadService(
	items workspaceSvc.ItemService,
	store storage.Storage,
	maxBytes int64,
	logger *slog.Logger,
) workspaceSvc.UploadService {
	return &uploadService{
		items:    items,
		storage:  store,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Upload stores the body under users/<owner>/<uuid><ext> and creates the item.
// If the item cannot be created the stored object is removed again.
func (s *uploadService) Upload(ctx context.Context, req *workspaceSvc.UploadRequest) (*models.Item, error) {
	if req.UserID == "" {
		return nil, &domain.ValidationError{Message: "owner is required"}
	}
	if strings.TrimSpace(req.Filename) == "" {
		return nil, &domain.ValidationError{Message: "file name is required"}
	}
	if s.maxBytes > 0 && req.Size > s.maxBytes {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("file exceeds %d bytes", s.maxBytes)}
	}

	key := path.Join("users", req.UserID, uuid.NewString()+strings.ToLower(path.Ext(req.Filename)))

	if err := s.storage.Save(ctx, key, req.Body, req.Size, req.ContentType); err != nil {
		return nil, domain.NewPersistenceError("failed to store file", err)
	}

	size := req.Size
	item, err := s.items.CreateFile(ctx, &workspaceSvc.CreateFileRequest{
		UserID:   req.UserID,
		Name:     req.Filename,
		FileType: fileTypeFor(req.ContentType, req.Filename),
		FileURL:  s.storage.URL(key),
		ParentID: req.ParentID,
		Size:     &size,
	})
	if err != nil {
		// Don't leave an orphaned object behind
		if delErr := s.storage.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			s.logger.Error("failed to remove object after item creation failed",
				"key", key,
				"error", delErr,
			)
		}
		return nil, err
	}

	s.logger.Info("file uploaded",
		"id", item.ID,
		"key", key,
		"size", req.Size,
		"user_id", req.UserID,
	)

	return item, nil
}

// DownloadURL presigns the object behind an uploaded file item
func (s *uploadService) DownloadURL(ctx context.Context, userID, itemID string) (string, error) {
	item, err := s.items.GetItem(ctx, userID, itemID)
	if err != nil {
		return "", err
	}
	if item.File == nil {
		return "", fmt.Errorf("%w: %q is a folder", domain.ErrValidation, item.Name)
	}
	if item.File.FileURL == "" {
		return "", &domain.NotFoundError{Message: fmt.Sprintf("file %q has no contents", item.Name)}
	}

	key, ok := s.storage.KeyFromURL(item.File.FileURL)
	if !ok {
		return item.File.FileURL, nil
	}

	url, err := s.storage.PresignedURL(ctx, key)
	if err != nil {
		return "", domain.NewPersistenceError("failed to sign download URL", err)
	}
	return url, nil
}

// fileTypeFor derives the file_type tag from the content type, falling back
// to the extension
func fileTypeFor(contentType, filename string) string {
	contentType = strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	if ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), "."); ext != "" {
		return ext
	}
	return models.DefaultFileType
}
