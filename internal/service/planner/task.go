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

var (
	taskPriorities = []interface{}{planner.PriorityLow, planner.PriorityMedium, planner.PriorityHigh}
	taskStatuses   = []interface{}{planner.StatusPending, planner.StatusInProgress, planner.StatusCompleted}
)

// taskService implements the TaskService interface
type taskService struct {
	taskRepo   plannerRepo.TaskRepository
	activities services.ActivityRecorder
	logger     *slog.Logger
}

// NewTaskService creates a new task service
func NewTaskService(
	taskRepo plannerRepo.TaskRepository,
	activities services.ActivityRecorder,
	logger *slog.Logger,
) plannerSvc.TaskService {
	return &taskService{
		taskRepo:   taskRepo,
		activities: activities,
		logger:     logger,
	}
}

// CreateTask creates a new task. Priority defaults to medium, status to pending.
func (s *taskService) CreateTask(ctx context.Context, req *plannerSvc.CreateTaskRequest) (*planner.Task, error) {
	if req.Priority == "" {
		req.Priority = planner.PriorityMedium
	}
	if req.Status == "" {
		req.Status = planner.StatusPending
	}

	err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required.Error("owner is required")),
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxTitleLength), validation.By(notBlank)),
		validation.Field(&req.Priority, validation.In(taskPriorities...)),
		validation.Field(&req.Status, validation.In(taskStatuses...)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	task := &planner.Task{
		UserID:      req.UserID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, domain.Persistence("failed to create task", err)
	}

	s.activities.Record(ctx, models.NewActivity(task.UserID, models.ActivityCreate,
		fmt.Sprintf("Created task '%s' with %s priority", task.Title, task.Priority),
		task.ID, models.RelatedTask))

	s.logger.Info("task created",
		"id", task.ID,
		"title", task.Title,
		"user_id", task.UserID,
	)

	return task, nil
}

// ListTasks returns the user's tasks, optionally filtered by status
func (s *taskService) ListTasks(ctx context.Context, userID, status string) ([]planner.Task, error) {
	if status != "" {
		if err := validation.Validate(status, validation.In(taskStatuses...)); err != nil {
			return nil, fmt.Errorf("%w: status: %v", domain.ErrValidation, err)
		}
	}

	tasks, err := s.taskRepo.List(ctx, userID, status)
	if err != nil {
		return nil, domain.Persistence("failed to fetch tasks", err)
	}
	return tasks, nil
}

// GetTask retrieves a task owned by userID
func (s *taskService) GetTask(ctx context.Context, userID, taskID string) (*planner.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID, userID)
	if err != nil {
		return nil, domain.Persistence("failed to fetch task", err)
	}
	return task, nil
}

// UpdateTask applies a partial update. The activity entry lists the fields
// whose value actually changed.
func (s *taskService) UpdateTask(ctx context.Context, userID, taskID string, req *plannerSvc.UpdateTaskRequest) (*planner.Task, error) {
	if req.Title == nil && req.Description == nil && req.Priority == nil && req.Status == nil {
		return nil, fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}
	err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.Priority, validation.NilOrNotEmpty, validation.In(taskPriorities...)),
		validation.Field(&req.Status, validation.NilOrNotEmpty, validation.In(taskStatuses...)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	task, err := s.taskRepo.GetByID(ctx, taskID, userID)
	if err != nil {
		return nil, domain.Persistence("failed to update task", err)
	}
	original := *task

	var changes []string
	apply := func(field string, dst *string, src *string) {
		if src == nil {
			return
		}
		if *dst != *src {
			changes = append(changes, field)
		}
		*dst = *src
	}
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		apply("title", &task.Title, &trimmed)
	}
	apply("description", &task.Description, req.Description)
	apply("priority", &task.Priority, req.Priority)
	apply("status", &task.Status, req.Status)

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, domain.Persistence("failed to update task", err)
	}

	s.activities.Record(ctx, models.NewActivity(userID, models.ActivityUpdate,
		describeTaskUpdate(original.Title, changes),
		task.ID, models.RelatedTask))

	s.logger.Info("task updated",
		"id", task.ID,
		"changes", changes,
		"user_id", userID,
	)

	return task, nil
}

// CompleteTask marks a task as completed
func (s *taskService) CompleteTask(ctx context.Context, userID, taskID string) (*planner.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID, userID)
	if err != nil {
		return nil, domain.Persistence("failed to complete task", err)
	}

	task.Status = planner.StatusCompleted
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, domain.Persistence("failed to complete task", err)
	}

	s.activities.Record(ctx, models.NewActivity(userID, models.ActivityComplete,
		fmt.Sprintf("Completed task '%s'", task.Title),
		task.ID, models.RelatedTask))

	s.logger.Info("task completed", "id", task.ID, "user_id", userID)

	return task, nil
}

// SetStatus changes the status and records the transition
func (s *taskService) SetStatus(ctx context.Context, userID, taskID, status string) (*planner.Task, error) {
	if err := validation.Validate(status, validation.Required, validation.In(taskStatuses...)); err != nil {
		return nil, fmt.Errorf("%w: status: %v", domain.ErrValidation, err)
	}

	task, err := s.taskRepo.GetByID(ctx, taskID, userID)
	if err != nil {
		return nil, domain.Persistence("failed to set task status", err)
	}

	oldStatus := task.Status
	task.Status = status
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, domain.Persistence("failed to set task status", err)
	}

	s.activities.Record(ctx, models.NewActivity(userID, models.ActivityUpdate,
		fmt.Sprintf("Changed task '%s' status from '%s' to '%s'", task.Title, oldStatus, status),
		task.ID, models.RelatedTask))

	s.logger.Info("task status changed",
		"id", task.ID,
		"old_status", oldStatus,
		"status", status,
		"user_id", userID,
	)

	return task, nil
}

// DeleteTask removes a task and returns it as it was
func (s *taskService) DeleteTask(ctx context.Context, userID, taskID string) (*planner.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID, userID)
	if err != nil {
		return nil, domain.Persistence("failed to delete task", err)
	}

	if err := s.taskRepo.Delete(ctx, taskID, userID); err != nil {
		return nil, domain.Persistence("failed to delete task", err)
	}

	s.activities.Record(ctx, models.NewActivity(userID, models.ActivityDelete,
		fmt.Sprintf("Deleted task '%s'", task.Title),
		task.ID, models.RelatedTask))

	s.logger.Info("task deleted", "id", taskID, "user_id", userID)

	return task, nil
}

// describeTaskUpdate builds "Updated task 'T' (title, status)"
func describeTaskUpdate(title string, changes []string) string {
	description := fmt.Sprintf("Updated task '%s'", title)
	if len(changes) > 0 {
		description += fmt.Sprintf(" (%s)", strings.Join(changes, ", "))
	}
	return description
}
