package service

import (
	"context"
	"log/slog"

	"workflow/internal/config"
	"workflow/internal/domain"
	"workflow/internal/domain/models"
	"workflow/internal/domain/repositories"
	"workflow/internal/domain/services"
)

// activityService implements the ActivityService interface
type activityService struct {
	repo   repositories.ActivityRepository
	logger *slog.Logger
}

// NewActivityService creates a new activity service
func NewActivityService(repo repositories.ActivityRepository, logger *slog.Logger) services.ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger,
	}
}

// Record appends an entry to the activity feed.
// A failed write is logged and dropped; the mutation that produced the
// entry has already succeeded and must stay that way.
func (s *activityService) Record(ctx context.Context, activity *models.Activity) {
	if activity == nil || activity.UserID == "" {
		return
	}

	// The request may already be finished when a cascade reports its last node
	if err := s.repo.Create(context.WithoutCancel(ctx), activity); err != nil {
		s.logger.Warn("failed to record activity",
			"user_id", activity.UserID,
			"activity_type", activity.Kind,
			"description", activity.Description,
			"related_item_id", activity.RelatedItemID,
			"error", err,
		)
		return
	}

	s.logger.Debug("activity recorded",
		"id", activity.ID,
		"activity_type", activity.Kind,
		"user_id", activity.UserID,
	)
}

// ListRecent returns the newest activities of a user
func (s *activityService) ListRecent(ctx context.Context, userID string, limit int) ([]models.Activity, error) {
	if userID == "" {
		return nil, &domain.ValidationError{Message: "user id is required"}
	}

	switch {
	case limit <= 0:
		limit = config.DefaultActivityLimit
	case limit > config.MaxActivityLimit:
		limit = config.MaxActivityLimit
	}

	activities, err := s.repo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, domain.Persistence("failed to fetch activities", err)
	}

	return activities, nil
}
