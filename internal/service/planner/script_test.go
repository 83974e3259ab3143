package planner

import (
	"context"
	"testing"

	"workflow/internal/domain"
	plannerSvc "workflow/internal/domain/services/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptLifecycle(t *testing.T) {
	repo := newFakeScriptRepo()
	recorder := &fakeRecorder{}
	svc := NewScriptService(repo, recorder, discardLogger())

	script, err := svc.CreateScript(context.Background(), &plannerSvc.CreateScriptRequest{
		UserID:   owner1,
		Title:    "Backup",
		Code:     "pg_dump $DATABASE_URL",
		Language: " Bash ",
	})
	require.NoError(t, err)
	assert.Equal(t, "bash", script.Language)
	assert.Equal(t, "Created script 'Backup'", recorder.last().Description)

	scripts, err := svc.ListScripts(context.Background(), owner1)
	require.NoError(t, err)
	assert.Len(t, scripts, 1)

	_, err = svc.GetScript(context.Background(), owner2, script.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.DeleteScript(context.Background(), owner1, script.ID))
	assert.Equal(t, "Deleted script 'Backup'", recorder.last().Description)
	assert.Zero(t, repo.len())
}

func TestCreateScript_RequiresCode(t *testing.T) {
	svc := NewScriptService(newFakeScriptRepo(), &fakeRecorder{}, discardLogger())

	_, err := svc.CreateScript(context.Background(), &plannerSvc.CreateScriptRequest{UserID: owner1, Title: "Empty"})

	assert.ErrorIs(t, err, domain.ErrValidation)
}
