package planner

import (
	"context"

	"workflow/internal/domain/models/planner"
)

// EventRepository defines data access operations for calendar events
type EventRepository interface {
	Create(ctx context.Context, event *planner.Event) error
	GetByID(ctx context.Context, id, userID string) (*planner.Event, error)

	// List returns events inside the range, ordered by start date
	List(ctx context.Context, userID string, r planner.EventRange) ([]planner.Event, error)

	Update(ctx context.Context, event *planner.Event) error
	Delete(ctx context.Context, id, userID string) error

	// DeleteAll removes every event of a user and returns how many were removed
	DeleteAll(ctx context.Context, userID string) (int64, error)
}
