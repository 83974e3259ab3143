package workspace

import (
	"context"

	"workflow/internal/domain/models/workspace"
)

// ItemService owns the structural operations over a user's item tree
type ItemService interface {
	// CreateFolder creates a folder under ParentID (nil = root)
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*workspace.Item, error)

	// CreateFile creates a file entry under ParentID (nil = root)
	CreateFile(ctx context.Context, req *CreateFileRequest) (*workspace.Item, error)

	// GetItem retrieves a single item owned by userID
	GetItem(ctx context.Context, userID, itemID string) (*workspace.Item, error)

	// ListChildren lists direct children of parentID. At root level the
	// user's canvases are included as synthetic file items.
	ListChildren(ctx context.Context, userID string, parentID *string) ([]workspace.Item, error)

	// Rename changes the display name of an item
	Rename(ctx context.Context, userID, itemID, name string) (*workspace.Item, error)

	// Move re-parents an item (nil = root)
	Move(ctx context.Context, userID, itemID string, parentID *string) (*workspace.Item, error)

	// Delete removes an item and, for folders, its whole subtree
	Delete(ctx context.Context, userID, itemID string) (*DeleteResult, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	UserID   string  `json:"-"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

// CreateFileRequest represents a file creation request
type CreateFileRequest struct {
	UserID   string  `json:"-"`
	Name     string  `json:"name"`
	FileType string  `json:"file_type"`
	FileURL  string  `json:"file_url"`
	ParentID *string `json:"parent_id"`
	Size     *int64  `json:"size"`
}

// DeleteResult confirms a (possibly cascading) delete
type DeleteResult struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Deleted int    `json:"deleted"` // Nodes removed, including the item itself
}
