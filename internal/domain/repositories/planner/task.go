package planner

import (
	"context"

	"workflow/internal/domain/models/planner"
)

// TaskRepository defines data access operations for tasks
type TaskRepository interface {
	Create(ctx context.Context, task *planner.Task) error
	GetByID(ctx context.Context, id, userID string) (*planner.Task, error)

	// List returns the user's tasks, optionally filtered by status (empty = all)
	List(ctx context.Context, userID, status string) ([]planner.Task, error)

	// Update persists title, description, priority and status
	Update(ctx context.Context, task *planner.Task) error
	Delete(ctx context.Context, id, userID string) error
}
