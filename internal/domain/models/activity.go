package models

import "time"

// ActivityKind is the verb of an audited mutation
type ActivityKind string

const (
	ActivityCreate   ActivityKind = "create"
	ActivityUpdate   ActivityKind = "update"
	ActivityMove     ActivityKind = "move"
	ActivityDelete   ActivityKind = "delete"
	ActivityComplete ActivityKind = "complete"
)

// Related entity kinds stored in activities.related_item_type
const (
	RelatedFolder  = "folder"
	RelatedFile    = "file"
	RelatedCanvas  = "canvas"
	RelatedTask    = "task"
	RelatedProject = "project"
	RelatedEvent   = "event"
	RelatedScript  = "script"
)

// Activity is one immutable row of the audit feed
type Activity struct {
	ID              string       `json:"id" db:"id"`
	UserID          string       `json:"user_id" db:"user_id"`
	Kind            ActivityKind `json:"activity_type" db:"activity_type"`
	Description     string       `json:"description" db:"description"`
	RelatedItemID   *string      `json:"related_item_id" db:"related_item_id"`
	RelatedItemType *string      `json:"related_item_type" db:"related_item_type"`
	Timestamp       time.Time    `json:"timestamp" db:"timestamp"`
}

// NewActivity builds an activity entry about a related entity
func NewActivity(userID string, kind ActivityKind, description, relatedID, relatedType string) *Activity {
	a := &Activity{
		UserID:      userID,
		Kind:        kind,
		Description: description,
	}
	if relatedID != "" {
		a.RelatedItemID = &relatedID
	}
	if relatedType != "" {
		a.RelatedItemType = &relatedType
	}
	return a
}
