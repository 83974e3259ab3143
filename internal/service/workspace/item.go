package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"workflow/internal/config"
	"workflow/internal/domain"
	models "workflow/internal/domain/models/workspace"
	"workflow/internal/domain/repositories"
	workspaceRepo "workflow/internal/domain/repositories/workspace"
	"workflow/internal/domain/services"
	workspaceSvc "workflow/internal/domain/services/workspace"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/sync/errgroup"
)

// ItemOptions selects the behaviors of the item tree that are a policy choice
type ItemOptions struct {
	// StrictParents validates parents on create and move and rejects cycles
	StrictParents bool
	// AtomicDelete runs the whole cascade in one transaction
	AtomicDelete bool
	// DeleteBatchSize bounds the ids per DELETE statement
	DeleteBatchSize int
}

// ItemOptionsFromConfig maps the items section of the configuration
func ItemOptionsFromConfig(cfg config.ItemsConfig) ItemOptions {
	return ItemOptions{
		StrictParents:   cfg.StrictParents,
		AtomicDelete:    cfg.AtomicDelete,
		DeleteBatchSize: cfg.DeleteBatchSize,
	}
}

const deleteConfirmation = "Item deleted successfully"

type itemService struct {
	itemRepo   workspaceRepo.ItemRepository
	canvasRepo workspaceRepo.CanvasRepository
	txManager  repositories.TransactionManager
	validator  *ParentValidator
	activities services.ActivityRecorder
	opts       ItemOptions
	logger     *slog.Logger
}

// NewItemService creates a new item service.
// canvasRepo may be nil, in which case root listings contain items only.
func NewItemService(
	itemRepo workspaceRepo.ItemRepository,
	canvasRepo workspaceRepo.CanvasRepository,
	txManager repositories.TransactionManager,
	activities services.ActivityRecorder,
	opts ItemOptions,
	logger *slog.Logger,
) workspaceSvc.ItemService {
	if opts.DeleteBatchSize <= 0 {
		opts.DeleteBatchSize = config.DefaultDeleteBatchSize
	}
	return &itemService{
		itemRepo:   itemRepo,
		canvasRepo: canvasRepo,
		txManager:  txManager,
		validator:  NewParentValidator(itemRepo),
		activities: activities,
		opts:       opts,
		logger:     logger,
	}
}

// CreateFolder creates a folder under req.ParentID (nil = root)
func (s *itemService) CreateFolder(ctx context.Context, req *workspaceSvc.CreateFolderRequest) (*models.Item, error) {
	if err := s.validateCreateFolderRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	parentID := normalizeParentID(req.ParentID)
	if err := s.checkParent(ctx, req.UserID, parentID); err != nil {
		return nil, err
	}

	folder := models.NewFolder(req.UserID, strings.TrimSpace(req.Name), parentID)
	if err := s.itemRepo.Create(ctx, folder); err != nil {
		return nil, domain.Persistence("failed to create folder", err)
	}

	s.activities.Record(ctx, createdActivity(folder))

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"user_id", folder.UserID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// CreateFile creates a file entry under req.ParentID (nil = root)
func (s *itemService) CreateFile(ctx context.Context, req *workspaceSvc.CreateFileRequest) (*models.Item, error) {
	if err := s.validateCreateFileRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	parentID := normalizeParentID(req.ParentID)
	if err := s.checkParent(ctx, req.UserID, parentID); err != nil {
		return nil, err
	}

	fileType := strings.TrimSpace(req.FileType)
	if fileType == "" {
		fileType = models.DefaultFileType
	}

	file := models.NewFile(req.UserID, strings.TrimSpace(req.Name), parentID, models.FileAttributes{
		FileType: fileType,
		FileURL:  req.FileURL,
		Size:     req.Size,
	})
	if err := s.itemRepo.Create(ctx, file); err != nil {
		return nil, domain.Persistence("failed to create file", err)
	}

	s.activities.Record(ctx, createdActivity(file))

	s.logger.Info("file created",
		"id", file.ID,
		"name", file.Name,
		"user_id", file.UserID,
		"parent_id", file.ParentID,
		"file_type", fileType,
	)

	return file, nil
}

// GetItem retrieves a single item. Canvas ids resolve to their synthetic item.
func (s *itemService) GetItem(ctx context.Context, userID, itemID string) (*models.Item, error) {
	if userID == "" {
		return nil, &domain.ValidationError{Message: "owner is required"}
	}

	if models.IsCanvasItemID(itemID) && s.canvasRepo != nil {
		canvas, err := s.canvasRepo.GetByID(ctx, strings.TrimPrefix(itemID, models.CanvasItemPrefix), userID)
		if err != nil {
			return nil, domain.Persistence("failed to fetch canvas", err)
		}
		item := canvas.AsItem()
		return &item, nil
	}

	item, err := s.itemRepo.GetByID(ctx, itemID, userID)
	if err != nil {
		return nil, domain.Persistence("failed to fetch item", err)
	}

	return item, nil
}

// ListChildren lists the direct children of parentID. The root listing also
// carries the user's canvases, fetched concurrently with the items.
func (s *itemService) ListChildren(ctx context.Context, userID string, parentID *string) ([]models.Item, error) {
	if userID == "" {
		return nil, &domain.ValidationError{Message: "owner is required"}
	}

	parentID = normalizeParentID(parentID)
	if parentID != nil {
		if models.IsCanvasItemID(*parentID) {
			// Canvases are leaves
			return []models.Item{}, nil
		}

		items, err := s.itemRepo.ListChildren(ctx, userID, parentID)
		if err != nil {
			return nil, domain.Persistence("failed to fetch items", err)
		}
		return items, nil
	}

	var items []models.Item
	var canvases []models.Canvas

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.itemRepo.ListChildren(gCtx, userID, nil)
		return err
	})
	if s.canvasRepo != nil {
		g.Go(func() error {
			var err error
			canvases, err = s.canvasRepo.List(gCtx, userID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.Persistence("failed to fetch items", err)
	}

	for i := range canvases {
		items = append(items, canvases[i].AsItem())
	}

	return items, nil
}

// Rename changes the display name of an item. An entry is recorded even when
// the name does not change.
func (s *itemService) Rename(ctx context.Context, userID, itemID, name string) (*models.Item, error) {
	if err := validateOwnerAndName(userID, name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if models.IsCanvasItemID(itemID) {
		return nil, fmt.Errorf("%w: canvases are renamed through the canvas API", domain.ErrValidation)
	}

	item, err := s.itemRepo.GetByID(ctx, itemID, userID)
	if err != nil {
		return nil, domain.Persistence("failed to rename item", err)
	}

	oldName := item.Name
	item.Name = strings.TrimSpace(name)

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, domain.Persistence("failed to rename item", err)
	}

	s.activities.Record(ctx, renamedActivity(item, oldName))

	s.logger.Info("item renamed",
		"id", item.ID,
		"old_name", oldName,
		"name", item.Name,
		"user_id", userID,
	)

	return item, nil
}

// Move re-parents an item. Without strict parents the new parent is taken
// as given: no existence, ownership or cycle check.
func (s *itemService) Move(ctx context.Context, userID, itemID string, parentID *string) (*models.Item, error) {
	if userID == "" {
		return nil, &domain.ValidationError{Message: "owner is required"}
	}
	if models.IsCanvasItemID(itemID) {
		return nil, fmt.Errorf("%w: canvases always live at the root level", domain.ErrValidation)
	}

	item, err := s.itemRepo.GetByID(ctx, itemID, userID)
	if err != nil {
		return nil, domain.Persistence("failed to move item", err)
	}

	parentID = normalizeParentID(parentID)

	var parent *models.Item
	if s.opts.StrictParents {
		if parentID != nil && *parentID == item.ID {
			return nil, fmt.Errorf("%w: cannot move an item into itself", domain.ErrValidation)
		}
		parent, err = s.validator.ValidateParent(ctx, userID, parentID)
		if err != nil {
			return nil, err
		}
		if err := s.validator.ValidateNoCycle(ctx, userID, item.ID, parentID); err != nil {
			return nil, err
		}
	}

	oldParentID := item.ParentID
	item.ParentID = parentID

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, domain.Persistence("failed to move item", err)
	}

	s.activities.Record(ctx, movedActivity(item, parent))

	s.logger.Info("item moved",
		"id", item.ID,
		"old_parent_id", oldParentID,
		"parent_id", item.ParentID,
		"user_id", userID,
	)

	return item, nil
}

// Delete removes an item and its whole subtree.
//
// The subtree is collected level by level (one query per level), then removed
// deepest level first in batches. Each removed node gets its own activity
// entry. Nodes that disappear concurrently are skipped. Unless AtomicDelete is
// set, a failure part way leaves the deeper levels already removed and the
// error is returned for the whole operation.
func (s *itemService) Delete(ctx context.Context, userID, itemID string) (*workspaceSvc.DeleteResult, error) {
	if userID == "" {
		return nil, &domain.ValidationError{Message: "owner is required"}
	}
	if models.IsCanvasItemID(itemID) {
		return nil, fmt.Errorf("%w: canvases are deleted through the canvas API", domain.ErrValidation)
	}

	// Once started, the cascade runs to the end even if the client goes away
	ctx = context.WithoutCancel(ctx)

	root, err := s.itemRepo.GetByID(ctx, itemID, userID)
	if err != nil {
		return nil, domain.Persistence("failed to delete item", err)
	}

	var removed []models.Item
	if s.opts.AtomicDelete && s.txManager != nil {
		err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			removed = nil
			return s.deleteSubtree(txCtx, root, func(batch []models.Item) {
				removed = append(removed, batch...)
			})
		})
		if err == nil {
			// Only committed deletions are audited
			s.recordDeleted(ctx, removed)
		}
	} else {
		err = s.deleteSubtree(ctx, root, func(batch []models.Item) {
			removed = append(removed, batch...)
			s.recordDeleted(ctx, batch)
		})
	}
	if err != nil {
		s.logger.Error("cascading delete failed",
			"id", root.ID,
			"user_id", userID,
			"removed", len(removed),
			"atomic", s.opts.AtomicDelete,
			"error", err,
		)
		return nil, domain.Persistence("failed to delete item", err)
	}

	if !containsItem(removed, root.ID) {
		// Removed by a concurrent delete between lookup and cascade
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("item %s not found", root.ID)}
	}

	s.logger.Info("item deleted",
		"id", root.ID,
		"name", root.Name,
		"type", root.Kind,
		"user_id", userID,
		"removed", len(removed),
	)

	return &workspaceSvc.DeleteResult{
		ID:      root.ID,
		Message: deleteConfirmation,
		Deleted: len(removed),
	}, nil
}

// deleteSubtree removes root and every descendant, reporting each removed
// batch through onDeleted as soon as it is gone.
func (s *itemService) deleteSubtree(ctx context.Context, root *models.Item, onDeleted func([]models.Item)) error {
	levels, err := s.collectSubtree(ctx, root)
	if err != nil {
		return err
	}

	// Children before parents: deepest level first
	for depth := len(levels) - 1; depth >= 0; depth-- {
		level := levels[depth]
		for start := 0; start < len(level); start += s.opts.DeleteBatchSize {
			end := min(start+s.opts.DeleteBatchSize, len(level))
			batch := level[start:end]

			ids := make([]string, len(batch))
			byID := make(map[string]models.Item, len(batch))
			for i, item := range batch {
				ids[i] = item.ID
				byID[item.ID] = item
			}

			deletedIDs, err := s.itemRepo.DeleteMany(ctx, root.UserID, ids)
			if err != nil {
				return fmt.Errorf("delete level %d: %w", depth, err)
			}

			deleted := make([]models.Item, 0, len(deletedIDs))
			for _, id := range deletedIDs {
				if item, ok := byID[id]; ok {
					deleted = append(deleted, item)
				}
			}
			if skipped := len(ids) - len(deleted); skipped > 0 {
				s.logger.Debug("items already removed during cascade",
					"root_id", root.ID,
					"depth", depth,
					"skipped", skipped,
				)
			}
			onDeleted(deleted)
		}
	}

	return nil
}

// collectSubtree gathers root and all descendants grouped by depth, using one
// "children of these parents" query per level. A visited set guards against
// cycles created by unchecked moves.
func (s *itemService) collectSubtree(ctx context.Context, root *models.Item) ([][]models.Item, error) {
	levels := [][]models.Item{{*root}}
	visited := map[string]bool{root.ID: true}
	frontier := []string{root.ID}

	for len(frontier) > 0 {
		children, err := s.itemRepo.ListChildrenOf(ctx, root.UserID, frontier)
		if err != nil {
			return nil, fmt.Errorf("collect descendants: %w", err)
		}

		var level []models.Item
		var next []string
		for _, child := range children {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			level = append(level, child)
			next = append(next, child.ID)
		}

		if len(level) > 0 {
			levels = append(levels, level)
		}
		frontier = next
	}

	return levels, nil
}

func (s *itemService) recordDeleted(ctx context.Context, items []models.Item) {
	for i := range items {
		s.activities.Record(ctx, deletedActivity(&items[i]))
	}
}

// checkParent applies strict parent validation when enabled
func (s *itemService) checkParent(ctx context.Context, userID string, parentID *string) error {
	if !s.opts.StrictParents {
		return nil
	}
	_, err := s.validator.ValidateParent(ctx, userID, parentID)
	return err
}

// validateCreateFolderRequest validates a folder creation request
func (s *itemService) validateCreateFolderRequest(req *workspaceSvc.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required.Error("owner is required")),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxItemNameLength),
			validation.By(notBlank),
		),
	)
}

// validateCreateFileRequest validates a file creation request
func (s *itemService) validateCreateFileRequest(req *workspaceSvc.CreateFileRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required.Error("owner is required")),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxItemNameLength),
			validation.By(notBlank),
		),
		validation.Field(&req.FileURL, validation.Length(0, config.MaxFileURLLength)),
		validation.Field(&req.Size, validation.Min(int64(0))),
	)
}

func validateOwnerAndName(userID, name string) error {
	return validation.Errors{
		"user_id": validation.Validate(userID, validation.Required.Error("owner is required")),
		"name": validation.Validate(name,
			validation.Required,
			validation.Length(1, config.MaxItemNameLength),
			validation.By(notBlank),
		),
	}.Filter()
}

// notBlank rejects names made only of whitespace
func notBlank(value interface{}) error {
	name, ok := value.(string)
	if !ok {
		return fmt.Errorf("name must be a string")
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

// normalizeParentID maps an empty parent id to the root level
func normalizeParentID(parentID *string) *string {
	if parentID == nil || strings.TrimSpace(*parentID) == "" {
		return nil
	}
	return parentID
}

func containsItem(items []models.Item, id string) bool {
	for i := range items {
		if items[i].ID == id {
			return true
		}
	}
	return false
}
