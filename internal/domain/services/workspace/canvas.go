package workspace

import (
	"context"
	"encoding/json"

	"workflow/internal/domain/models/workspace"
	"workflow/internal/domain/services"
)

// CanvasService handles canvas business logic
type CanvasService interface {
	SaveCanvas(ctx context.Context, req *SaveCanvasRequest) (*workspace.Canvas, error)
	GetCanvas(ctx context.Context, userID, canvasID string) (*workspace.Canvas, error)
	ListCanvases(ctx context.Context, userID string) ([]workspace.Canvas, error)
	UpdateCanvas(ctx context.Context, userID, canvasID string, req *UpdateCanvasRequest) (*workspace.Canvas, error)
	DeleteCanvas(ctx context.Context, userID, canvasID string) error
}

// SaveCanvasRequest represents a canvas creation request
type SaveCanvasRequest struct {
	UserID      string          `json:"-"`
	Name        string          `json:"name"`
	Content     json.RawMessage `json:"content"`
	Description *string         `json:"description"`
}

// UpdateCanvasRequest is a partial update. Nil fields are left unchanged.
type UpdateCanvasRequest struct {
	Name        *string
	Content     json.RawMessage
	Description services.OptionalString
}
