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

// projectService implements the ProjectService interface
type projectService struct {
	projectRepo plannerRepo.ProjectRepository
	activities  services.ActivityRecorder
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo plannerRepo.ProjectRepository,
	activities services.ActivityRecorder,
	logger *slog.Logger,
) plannerSvc.ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		activities:  activities,
		logger:      logger,
	}
}

// CreateProject creates a new project
func (s *projectService) CreateProject(ctx context.Context, req *plannerSvc.CreateProjectRequest) (*planner.Project, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required.Error("owner is required")),
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxTitleLength), validation.By(notBlank)),
		validation.Field(&req.Status, validation.Length(0, 50)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project := &planner.Project{
		UserID:      req.UserID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      strings.TrimSpace(req.Status),
	}
	if project.Status == "" {
		project.Status = planner.DefaultProjectStatus
	}
	if req.Deadline != nil && strings.TrimSpace(*req.Deadline) != "" {
		deadline, err := parseDeadline(*req.Deadline)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		project.Deadline = &deadline
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, domain.Persistence("failed to create project", err)
	}

	s.activities.Record(ctx, models.NewActivity(project.UserID, models.ActivityCreate,
		fmt.Sprintf("Created project '%s'", project.Title),
		project.ID, models.RelatedProject))

	s.logger.Info("project created",
		"id", project.ID,
		"title", project.Title,
		"user_id", project.UserID,
	)

	return project, nil
}

// ListProjects returns the user's projects, newest first
func (s *projectService) ListProjects(ctx context.Context, userID string) ([]planner.Project, error) {
	projects, err := s.projectRepo.List(ctx, userID)
	if err != nil {
		return nil, domain.Persistence("failed to fetch projects", err)
	}
	return projects, nil
}

// GetProject retrieves a project owned by userID
func (s *projectService) GetProject(ctx context.Context, userID, projectID string) (*planner.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID, userID)
	if err != nil {
		return nil, domain.Persistence("failed to fetch project", err)
	}
	return project, nil
}

// UpdateProject updates title, description, status and deadline. Other
// fields of the request body are ignored.
func (s *projectService) UpdateProject(ctx context.Context, userID, projectID string, req *plannerSvc.UpdateProjectRequest) (*planner.Project, error) {
	if req.Title == nil && req.Description == nil && req.Status == nil && !req.Deadline.Present {
		return nil, fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}
	err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.Status, validation.NilOrNotEmpty, validation.Length(1, 50)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.projectRepo.GetByID(ctx, projectID, userID)
	if err != nil {
		return nil, domain.Persistence("failed to update project", err)
	}

	if req.Title != nil {
		project.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = strings.TrimSpace(*req.Status)
	}
	if req.Deadline.Present {
		if req.Deadline.Value == nil || strings.TrimSpace(*req.Deadline.Value) == "" {
			project.Deadline = nil
		} else {
			deadline, err := parseDeadline(*req.Deadline.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
			}
			project.Deadline = &deadline
		}
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, domain.Persistence("failed to update project", err)
	}

	s.activities.Record(ctx, models.NewActivity(userID, models.ActivityUpdate,
		fmt.Sprintf("Updated project '%s'", project.Title),
		project.ID, models.RelatedProject))

	s.logger.Info("project updated",
		"id", project.ID,
		"title", project.Title,
		"user_id", userID,
	)

	return project, nil
}

// DeleteProject removes a project and returns it as it was
func (s *projectService) DeleteProject(ctx context.Context, userID, projectID string) (*planner.Project, error) {
	// Verify project exists first (provides better error message)
	project, err := s.projectRepo.GetByID(ctx, projectID, userID)
	if err != nil {
		return nil, domain.Persistence("failed to delete project", err)
	}

	if err := s.projectRepo.Delete(ctx, projectID, userID); err != nil {
		return nil, domain.Persistence("failed to delete project", err)
	}

	s.activities.Record(ctx, models.NewActivity(userID, models.ActivityDelete,
		fmt.Sprintf("Deleted project '%s'", project.Title),
		project.ID, models.RelatedProject))

	s.logger.Info("project deleted",
		"id", projectID,
		"user_id", userID,
	)

	return project, nil
}
