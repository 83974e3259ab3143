package workspace

import (
	"context"

	"workflow/internal/domain/models/workspace"
)

// ItemRepository defines data access operations for the item tree.
// Every method is scoped to the owning user.
type ItemRepository interface {
	// Create inserts a new item and fills in ID and timestamps
	Create(ctx context.Context, item *workspace.Item) error

	// GetByID retrieves an item owned by userID
	GetByID(ctx context.Context, id, userID string) (*workspace.Item, error)

	// ListChildren lists the direct children of parentID (nil = root level)
	ListChildren(ctx context.Context, userID string, parentID *string) ([]workspace.Item, error)

	// ListChildrenOf lists the direct children of any of parentIDs in one query
	ListChildrenOf(ctx context.Context, userID string, parentIDs []string) ([]workspace.Item, error)

	// Update persists name and parent_id of an existing item
	Update(ctx context.Context, item *workspace.Item) error

	// DeleteMany deletes the given items and returns the ids that were actually removed.
	// Ids that no longer exist are skipped, not reported as errors.
	DeleteMany(ctx context.Context, userID string, ids []string) ([]string, error)
}
