package repositories

import (
	"context"

	"workflow/internal/domain/models"
)

// ActivityRepository defines data access for the append-only activity feed
type ActivityRepository interface {
	// Create appends an activity row; ID and Timestamp are filled in
	Create(ctx context.Context, activity *models.Activity) error

	// ListRecent returns the newest activities for a user, newest first
	ListRecent(ctx context.Context, userID string, limit int) ([]models.Activity, error)
}
