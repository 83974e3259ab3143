package workspace

import (
	"encoding/json"
	"strings"
	"time"
)

// CanvasItemPrefix marks the synthetic item ids that stand in for canvases
const CanvasItemPrefix = "canvas-"

// CanvasFileType is the file_type reported for synthetic canvas items
const CanvasFileType = "canvas"

type Canvas struct {
	ID          string          `json:"id" db:"id"`
	UserID      string          `json:"user_id" db:"user_id"`
	Name        string          `json:"name" db:"name"`
	Description *string         `json:"description" db:"description"`
	Content     json.RawMessage `json:"content" db:"content"` // Drawing document, stored as JSONB
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// AsItem surfaces the canvas as a root-level file item for listings.
// The result is not a member of the item tree.
func (c *Canvas) AsItem() Item {
	return Item{
		ID:     CanvasItemPrefix + c.ID,
		UserID: c.UserID,
		Kind:   KindFile,
		Name:   c.Name,
		File: &FileAttributes{
			FileType: CanvasFileType,
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// IsCanvasItemID reports whether id refers to a synthetic canvas item
func IsCanvasItemID(id string) bool {
	return strings.HasPrefix(id, CanvasItemPrefix)
}
