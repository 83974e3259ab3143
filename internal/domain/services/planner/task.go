package planner

import (
	"context"

	"workflow/internal/domain/models/planner"
)

// TaskService handles task business logic
type TaskService interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*planner.Task, error)
	ListTasks(ctx context.Context, userID, status string) ([]planner.Task, error)
	GetTask(ctx context.Context, userID, taskID string) (*planner.Task, error)

	// UpdateTask applies a partial update and records which fields changed
	UpdateTask(ctx context.Context, userID, taskID string, req *UpdateTaskRequest) (*planner.Task, error)

	// CompleteTask sets the status to completed
	CompleteTask(ctx context.Context, userID, taskID string) (*planner.Task, error)

	// SetStatus changes the status and records the transition
	SetStatus(ctx context.Context, userID, taskID, status string) (*planner.Task, error)

	DeleteTask(ctx context.Context, userID, taskID string) (*planner.Task, error)
}

// CreateTaskRequest represents a task creation request
type CreateTaskRequest struct {
	UserID      string `json:"-"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

// UpdateTaskRequest is a partial update. Nil fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}
