package services

import (
	"context"

	"workflow/internal/domain/models"
)

// ActivityRecorder appends audit entries on a best-effort basis.
// Record never fails from the caller's point of view: a write error is
// logged by the recorder and dropped.
type ActivityRecorder interface {
	Record(ctx context.Context, activity *models.Activity)
}

// ActivityService exposes the activity feed
type ActivityService interface {
	ActivityRecorder

	// ListRecent returns the newest entries for a user (limit <= 0 = default)
	ListRecent(ctx context.Context, userID string, limit int) ([]models.Activity, error)
}
