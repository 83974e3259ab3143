package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"workflow/internal/config"
	"workflow/internal/domain"
	"workflow/internal/domain/models"
	planner "workflow/internal/domain/models/planner"
	plannerRepo "workflow/internal/domain/repositories/planner"
	"workflow/internal/domain/services"
	plannerSvc "workflow/internal/domain/services/planner"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// eventService implements the EventService interface
type eventService struct {
	eventRepo  plannerRepo.EventRepository
	activities services.ActivityRecorder
	logger     *slog.Logger
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo plannerRepo.EventRepository,
	activities services.ActivityRecorder,
	logger *slog.Logger,
) plannerSvc.EventService {
	return &eventService{
		eventRepo:  eventRepo,
		activities: activities,
		logger:     logger,
	}
}

// CreateEvent creates a calendar event
func (s *eventService) CreateEvent(ctx context.Context, req *plannerSvc.CreateEventRequest) (*planner.Event, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required.Error("owner is required")),
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxTitleLength), validation.By(notBlank)),
		validation.Field(&req.StartDate, validation.Required),
		validation.Field(&req.EndDate, validation.Required),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	event := &planner.Event{
		UserID:      req.UserID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		AllDay:      req.AllDay,
		Color:       req.Color,
	}
	if err := validateEventDates(event); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, domain.Persistence("failed to create event", err)
	}

	s.activities.Record(ctx, models.NewActivity(event.UserID, models.ActivityCreate,
		fmt.Sprintf("Created event '%s'", event.Title),
		event.ID, models.RelatedEvent))

	s.logger.Info("event created",
		"id", event.ID,
		"title", event.Title,
		"user_id", event.UserID,
	)

	return event, nil
}

// ListEvents returns the user's events in the range, ordered by start date
func (s *eventService) ListEvents(ctx context.Context, userID string, r planner.EventRange) ([]planner.Event, error) {
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return nil, fmt.Errorf("%w: end must not be before start", domain.ErrValidation)
	}

	events, err := s.eventRepo.List(ctx, userID, r)
	if err != nil {
		return nil, domain.Persistence("failed to fetch events", err)
	}
	return events, nil
}

// GetEvent retrieves an event owned by userID
func (s *eventService) GetEvent(ctx context.Context, userID, eventID string) (*planner.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID, userID)
	if err != nil {
		return nil, domain.Persistence("failed to fetch event", err)
	}
	return event, nil
}

// UpdateEvent applies a partial update
func (s *eventService) UpdateEvent(ctx context.Context, userID, eventID string, req *plannerSvc.UpdateEventRequest) (*planner.Event, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, config.MaxTitleLength)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID, userID)
	if err != nil {
		return nil, domain.Persistence("failed to update event", err)
	}

	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = *req.EndDate
	}
	if req.AllDay != nil {
		event.AllDay = *req.AllDay
	}
	if req.Color != nil {
		event.Color = *req.Color
	}
	if err := validateEventDates(event); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, domain.Persistence("failed to update event", err)
	}

	s.activities.Record(ctx, models.NewActivity(userID, models.ActivityUpdate,
		fmt.Sprintf("Updated event '%s'", event.Title),
		event.ID, models.RelatedEvent))

	s.logger.Info("event updated", "id", event.ID, "user_id", userID)

	return event, nil
}

// DeleteEvent removes an event
func (s *eventService) DeleteEvent(ctx context.Context, userID, eventID string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID, userID)
	if err != nil {
		return domain.Persistence("failed to delete event", err)
	}

	if err := s.eventRepo.Delete(ctx, eventID, userID); err != nil {
		return domain.Persistence("failed to delete event", err)
	}

	s.activities.Record(ctx, models.NewActivity(userID, models.ActivityDelete,
		fmt.Sprintf("Deleted event '%s'", event.Title),
		event.ID, models.RelatedEvent))

	s.logger.Info("event deleted", "id", eventID, "user_id", userID)

	return nil
}

// DeleteAllEvents clears the user's calendar
func (s *eventService) DeleteAllEvents(ctx context.Context, userID string) (int64, error) {
	count, err := s.eventRepo.DeleteAll(ctx, userID)
	if err != nil {
		return 0, domain.Persistence("failed to delete events", err)
	}

	if count > 0 {
		s.activities.Record(ctx, models.NewActivity(userID, models.ActivityDelete,
			fmt.Sprintf("Deleted all events (%d)", count),
			"", models.RelatedEvent))
	}

	s.logger.Info("events cleared", "user_id", userID, "count", count)

	return count, nil
}

func validateEventDates(event *planner.Event) error {
	if event.EndDate.Before(event.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	return nil
}
