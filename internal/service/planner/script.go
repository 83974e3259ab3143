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

// scriptService implements the ScriptService interface
type scriptService struct {
	scriptRepo plannerRepo.ScriptRepository
	activities services.ActivityRecorder
	logger     *slog.Logger
}

// NewScriptService creates a new script service
func NewScriptService(
	scriptRepo plannerRepo.ScriptRepository,
	activities services.ActivityRecorder,
	logger *slog.Logger,
) plannerSvc.ScriptService {
	return &scriptService{
		scriptRepo: scriptRepo,
		activities: activities,
		logger:     logger,
	}
}

// CreateScript saves a code snippet
func (s *scriptService) CreateScript(ctx context.Context, req *plannerSvc.CreateScriptRequest) (*planner.Script, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required.Error("owner is required")),
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxTitleLength), validation.By(notBlank)),
		validation.Field(&req.Code, validation.Required),
		validation.Field(&req.Language, validation.Length(0, 50)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	script := &planner.Script{
		UserID:      req.UserID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Code:        req.Code,
		Language:    strings.ToLower(strings.TrimSpace(req.Language)),
	}
	if err := s.scriptRepo.Create(ctx, script); err != nil {
		return nil, domain.Persistence("failed to create script", err)
	}

	s.activities.Record(ctx, models.NewActivity(script.UserID, models.ActivityCreate,
		fmt.Sprintf("Created script '%s'", script.Title),
		script.ID, models.RelatedScript))

	s.logger.Info("script created",
		"id", script.ID,
		"title", script.Title,
		"language", script.Language,
		"user_id", script.UserID,
	)

	return script, nil
}

// ListScripts returns the user's scripts
func (s *scriptService) ListScripts(ctx context.Context, userID string) ([]planner.Script, error) {
	scripts, err := s.scriptRepo.List(ctx, userID)
	if err != nil {
		return nil, domain.Persistence("failed to fetch scripts", err)
	}
	return scripts, nil
}

// GetScript retrieves a script owned by userID
func (s *scriptService) GetScript(ctx context.Context, userID, scriptID string) (*planner.Script, error) {
	script, err := s.scriptRepo.GetByID(ctx, scriptID, userID)
	if err != nil {
		return nil, domain.Persistence("failed to fetch script", err)
	}
	return script, nil
}

// DeleteScript removes a script
func (s *scriptService) DeleteScript(ctx context.Context, userID, scriptID string) error {
	script, err := s.scriptRepo.GetByID(ctx, scriptID, userID)
	if err != nil {
		return domain.Persistence("failed to delete script", err)
	}

	if err := s.scriptRepo.Delete(ctx, scriptID, userID); err != nil {
		return domain.Persistence("failed to delete script", err)
	}

	s.activities.Record(ctx, models.NewActivity(userID, models.ActivityDelete,
		fmt.Sprintf("Deleted script '%s'", script.Title),
		script.ID, models.RelatedScript))

	s.logger.Info("script deleted", "id", scriptID, "user_id", userID)

	return nil
}
