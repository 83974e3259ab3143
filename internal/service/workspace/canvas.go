package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"workflow/internal/config"
	"workflow/internal/domain"
	"workflow/internal/domain/models"
	workspace "workflow/internal/domain/models/workspace"
	workspaceRepo "workflow/internal/domain/repositories/workspace"
	"workflow/internal/domain/services"
	workspaceSvc "workflow/internal/domain/services/workspace"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// emptyCanvas is stored when a canvas is saved without content
var emptyCanvas = json.RawMessage(`{}`)

// canvasService implements the CanvasService interface
type canvasService struct {
	canvasRepo workspaceRepo.CanvasRepository
	activities services.ActivityRecorder
	logger     *slog.Logger
}

// NewCanvasService creates a new canvas service
func NewCanvasService(
	canvasRepo workspaceRepo.CanvasRepository,
	activities services.ActivityRecorder,
	logger *slog.Logger,
) workspaceSvc.CanvasService {
	return &canvasService{
		canvasRepo: canvasRepo,
		activities: activities,
		logger:     logger,
	}
}

// SaveCanvas stores a new canvas
func (s *canvasService) SaveCanvas(ctx context.Context, req *workspaceSvc.SaveCanvasRequest) (*workspace.Canvas, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required.Error("owner is required")),
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxCanvasNameLength), validation.By(notBlank)),
		validation.Field(&req.Content, validation.By(validJSON)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	content := req.Content
	if len(content) == 0 {
		content = emptyCanvas
	}

	canvas := &workspace.Canvas{
		UserID:      req.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Content:     content,
	}
	if err := s.canvasRepo.Create(ctx, canvas); err != nil {
		return nil, domain.Persistence("failed to save canvas", err)
	}

	s.activities.Record(ctx, canvasActivity(models.ActivityCreate, canvas))

	s.logger.Info("canvas created",
		"id", canvas.ID,
		"name", canvas.Name,
		"user_id", canvas.UserID,
	)

	return canvas, nil
}

// GetCanvas retrieves a canvas owned by userID
func (s *canvasService) GetCanvas(ctx context.Context, userID, canvasID string) (*workspace.Canvas, error) {
	canvas, err := s.canvasRepo.GetByID(ctx, canvasID, userID)
	if err != nil {
		return nil, domain.Persistence("failed to fetch canvas", err)
	}
	return canvas, nil
}

// ListCanvases returns all canvases of a user, newest first
func (s *canvasService) ListCanvases(ctx context.Context, userID string) ([]workspace.Canvas, error) {
	canvases, err := s.canvasRepo.List(ctx, userID)
	if err != nil {
		return nil, domain.Persistence("failed to fetch canvases", err)
	}
	return canvases, nil
}

// UpdateCanvas applies a partial update
func (s *canvasService) UpdateCanvas(ctx context.Context, userID, canvasID string, req *workspaceSvc.UpdateCanvasRequest) (*workspace.Canvas, error) {
	if req.Name == nil && req.Content == nil && !req.Description.Present {
		return nil, fmt.Errorf("%w: at least one field must be provided", domain.ErrValidation)
	}
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, config.MaxCanvasNameLength)),
		validation.Field(&req.Content, validation.By(validJSON)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	canvas, err := s.canvasRepo.GetByID(ctx, canvasID, userID)
	if err != nil {
		return nil, domain.Persistence("failed to update canvas", err)
	}

	if req.Name != nil {
		canvas.Name = strings.TrimSpace(*req.Name)
	}
	if req.Content != nil {
		canvas.Content = req.Content
	}
	if req.Description.Present {
		canvas.Description = req.Description.Value
	}

	if err := s.canvasRepo.Update(ctx, canvas); err != nil {
		return nil, domain.Persistence("failed to update canvas", err)
	}

	s.activities.Record(ctx, canvasActivity(models.ActivityUpdate, canvas))

	s.logger.Info("canvas updated",
		"id", canvas.ID,
		"name", canvas.Name,
		"user_id", userID,
	)

	return canvas, nil
}

// DeleteCanvas removes a canvas
func (s *canvasService) DeleteCanvas(ctx context.Context, userID, canvasID string) error {
	// Fetch first so the activity entry can name the canvas
	canvas, err := s.canvasRepo.GetByID(ctx, canvasID, userID)
	if err != nil {
		return domain.Persistence("failed to delete canvas", err)
	}

	if err := s.canvasRepo.Delete(ctx, canvasID, userID); err != nil {
		return domain.Persistence("failed to delete canvas", err)
	}

	s.activities.Record(ctx, canvasActivity(models.ActivityDelete, canvas))

	s.logger.Info("canvas deleted",
		"id", canvasID,
		"user_id", userID,
	)

	return nil
}

// validJSON accepts empty content or a well-formed JSON document
func validJSON(value interface{}) error {
	raw, ok := value.(json.RawMessage)
	if !ok {
		return fmt.Errorf("content must be JSON")
	}
	if len(raw) > 0 && !json.Valid(raw) {
		return fmt.Errorf("content must be valid JSON")
	}
	return nil
}
