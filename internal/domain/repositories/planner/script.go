package planner

import (
	"context"

	"workflow/internal/domain/models/planner"
)

// ScriptRepository defines data access operations for scripts
type ScriptRepository interface {
	Create(ctx context.Context, script *planner.Script) error
	GetByID(ctx context.Context, id, userID string) (*planner.Script, error)
	List(ctx context.Context, userID string) ([]planner.Script, error)
	Delete(ctx context.Context, id, userID string) error
}
