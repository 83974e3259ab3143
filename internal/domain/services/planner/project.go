package planner

import (
	"context"

	"workflow/internal/domain/models/planner"
	"workflow/internal/domain/services"
)

// ProjectService handles project business logic
type ProjectService interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*planner.Project, error)
	ListProjects(ctx context.Context, userID string) ([]planner.Project, error)
	GetProject(ctx context.Context, userID, projectID string) (*planner.Project, error)
	UpdateProject(ctx context.Context, userID, projectID string, req *UpdateProjectRequest) (*planner.Project, error)

	// DeleteProject removes the project and returns it as it was
	DeleteProject(ctx context.Context, userID, projectID string) (*planner.Project, error)
}

// CreateProjectRequest represents a project creation request.
// Deadline is an RFC 3339 timestamp or a YYYY-MM-DD date.
type CreateProjectRequest struct {
	UserID      string  `json:"-"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Deadline    *string `json:"deadline"`
}

// UpdateProjectRequest is a partial update over title, description, status and deadline
type UpdateProjectRequest struct {
	Title       *string
	Description *string
	Status      *string
	Deadline    services.OptionalString
}
