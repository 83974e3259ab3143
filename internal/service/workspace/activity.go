package workspace

import (
	"fmt"

	"workflow/internal/domain/models"
	workspace "workflow/internal/domain/models/workspace"
)

// Activity entries written by the item tree. Related type is the item kind
// ("folder" or "file").

func createdActivity(item *workspace.Item) *models.Activity {
	return models.NewActivity(item.UserID, models.ActivityCreate,
		fmt.Sprintf("Created %s '%s'", item.Kind, item.Name),
		item.ID, string(item.Kind))
}

func renamedActivity(item *workspace.Item, oldName string) *models.Activity {
	return models.NewActivity(item.UserID, models.ActivityUpdate,
		fmt.Sprintf("Renamed %s '%s' to '%s'", item.Kind, oldName, item.Name),
		item.ID, string(item.Kind))
}

// movedActivity describes a move. parent is nil when the destination is the
// root level or was not resolved.
func movedActivity(item *workspace.Item, parent *workspace.Item) *models.Activity {
	var description string
	switch {
	case item.ParentID == nil:
		description = fmt.Sprintf("Moved %s '%s' to root", item.Kind, item.Name)
	case parent != nil:
		description = fmt.Sprintf("Moved %s '%s' into '%s'", item.Kind, item.Name, parent.Name)
	default:
		description = fmt.Sprintf("Moved %s '%s'", item.Kind, item.Name)
	}
	return models.NewActivity(item.UserID, models.ActivityMove, description, item.ID, string(item.Kind))
}

func deletedActivity(item *workspace.Item) *models.Activity {
	return models.NewActivity(item.UserID, models.ActivityDelete,
		fmt.Sprintf("Deleted %s '%s'", item.Kind, item.Name),
		item.ID, string(item.Kind))
}

func canvasActivity(kind models.ActivityKind, canvas *workspace.Canvas) *models.Activity {
	var verb string
	switch kind {
	case models.ActivityCreate:
		verb = "Created"
	case models.ActivityDelete:
		verb = "Deleted"
	default:
		verb = "Updated"
	}
	return models.NewActivity(canvas.UserID, kind,
		fmt.Sprintf("%s canvas '%s'", verb, canvas.Name),
		canvas.ID, models.RelatedCanvas)
}
