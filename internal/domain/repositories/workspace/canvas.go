package workspace

import (
	"context"

	"workflow/internal/domain/models/workspace"
)

// CanvasRepository defines data access operations for canvases
type CanvasRepository interface {
	Create(ctx context.Context, canvas *workspace.Canvas) error
	GetByID(ctx context.Context, id, userID string) (*workspace.Canvas, error)

	// List returns all canvases of a user, newest first
	List(ctx context.Context, userID string) ([]workspace.Canvas, error)

	Update(ctx context.Context, canvas *workspace.Canvas) error
	Delete(ctx context.Context, id, userID string) error
}
