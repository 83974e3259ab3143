package workspace

import (
	"context"
	"io"

	"workflow/internal/domain/models/workspace"
)

// UploadService stores file contents and creates the matching file item
type UploadService interface {
	// Upload stores the body and creates a file item pointing at it
	Upload(ctx context.Context, req *UploadRequest) (*workspace.Item, error)

	// DownloadURL returns a short-lived link to a file item's contents.
	// Files whose URL was not produced by an upload return their stored URL.
	DownloadURL(ctx context.Context, userID, itemID string) (string, error)
}

// UploadRequest carries one multipart file
type UploadRequest struct {
	UserID      string
	ParentID    *string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
