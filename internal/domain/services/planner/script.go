package planner

import (
	"context"

	"workflow/internal/domain/models/planner"
)

// ScriptService handles saved scripts
type ScriptService interface {
	CreateScript(ctx context.Context, req *CreateScriptRequest) (*planner.Script, error)
	ListScripts(ctx context.Context, userID string) ([]planner.Script, error)
	GetScript(ctx context.Context, userID, scriptID string) (*planner.Script, error)
	DeleteScript(ctx context.Context, userID, scriptID string) error
}

// CreateScriptRequest represents a script creation request
type CreateScriptRequest struct {
	UserID      string `json:"-"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Code        string `json:"code"`
	Language    string `json:"language"`
}
