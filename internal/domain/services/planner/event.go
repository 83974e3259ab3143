package planner

import (
	"context"
	"time"

	"workflow/internal/domain/models/planner"
)

// EventService handles calendar event business logic
type EventService interface {
	CreateEvent(ctx context.Context, req *CreateEventRequest) (*planner.Event, error)
	ListEvents(ctx context.Context, userID string, r planner.EventRange) ([]planner.Event, error)
	GetEvent(ctx context.Context, userID, eventID string) (*planner.Event, error)
	UpdateEvent(ctx context.Context, userID, eventID string, req *UpdateEventRequest) (*planner.Event, error)
	DeleteEvent(ctx context.Context, userID, eventID string) error

	// DeleteAllEvents clears the user's calendar
	DeleteAllEvents(ctx context.Context, userID string) (int64, error)
}

// CreateEventRequest represents an event creation request
type CreateEventRequest struct {
	UserID      string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	AllDay      bool      `json:"all_day"`
	Color       string    `json:"color"`
}

// UpdateEventRequest is a partial update. Nil fields are left unchanged.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	AllDay      *bool      `json:"all_day"`
	Color       *string    `json:"color"`
}
