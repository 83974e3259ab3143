package planner

import (
	"context"

	"workflow/internal/domain/models/planner"
)

// ProjectRepository defines data access operations for projects
type ProjectRepository interface {
	Create(ctx context.Context, project *planner.Project) error
	GetByID(ctx context.Context, id, userID string) (*planner.Project, error)

	// List returns the user's projects, newest first
	List(ctx context.Context, userID string) ([]planner.Project, error)

	Update(ctx context.Context, project *planner.Project) error
	Delete(ctx context.Context, id, userID string) error
}
