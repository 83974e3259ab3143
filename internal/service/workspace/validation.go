package workspace

import (
	"context"
	"errors"
	"fmt"

	"workflow/internal/domain"
	models "workflow/internal/domain/models/workspace"
	workspaceRepo "workflow/internal/domain/repositories/workspace"
)

// ParentValidator checks that a folder can receive an item.
// It only runs when strict parent checking is enabled.
type ParentValidator struct {
	itemRepo workspaceRepo.ItemRepository
}

// NewParentValidator creates a new parent validator
func NewParentValidator(itemRepo workspaceRepo.ItemRepository) *ParentValidator {
	return &ParentValidator{itemRepo: itemRepo}
}

// ValidateParent ensures parentID names a folder owned by userID.
// Returns the folder, or nil for the root level.
func (v *ParentValidator) ValidateParent(ctx context.Context, userID string, parentID *string) (*models.Item, error) {
	if parentID == nil {
		return nil, nil // Root is always valid
	}
	if models.IsCanvasItemID(*parentID) {
		return nil, fmt.Errorf("%w: a canvas cannot contain items", domain.ErrValidation)
	}

	parent, err := v.itemRepo.GetByID(ctx, *parentID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: parent folder %s not found", domain.ErrValidation, *parentID)
		}
		return nil, domain.Persistence("failed to check parent folder", err)
	}

	if !parent.IsFolder() {
		return nil, fmt.Errorf("%w: parent %q is not a folder", domain.ErrValidation, parent.Name)
	}

	return parent, nil
}

// ValidateNoCycle ensures moving itemID under newParentID keeps the tree acyclic
func (v *ParentValidator) ValidateNoCycle(ctx context.Context, userID, itemID string, newParentID *string) error {
	if newParentID == nil {
		return nil
	}

	// Can't move an item to be its own parent
	if *newParentID == itemID {
		return fmt.Errorf("%w: cannot move an item into itself", domain.ErrValidation)
	}

	// Walk up from the new parent; reaching itemID means it is a descendant.
	// The visited set stops the walk on graphs that already contain a cycle.
	visited := map[string]bool{}
	currentID := *newParentID
	for {
		if visited[currentID] {
			return fmt.Errorf("%w: folder %s is part of a cycle", domain.ErrValidation, currentID)
		}
		visited[currentID] = true

		current, err := v.itemRepo.GetByID(ctx, currentID, userID)
		if err != nil {
			return domain.Persistence("failed to walk folder ancestry", err)
		}

		if current.ParentID == nil {
			// Reached root, no cycle
			return nil
		}

		if *current.ParentID == itemID {
			return fmt.Errorf("%w: cannot move a folder into its own descendant", domain.ErrValidation)
		}

		currentID = *current.ParentID
	}
}
