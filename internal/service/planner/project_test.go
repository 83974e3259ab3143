package planner

import (
	"context"
	"testing"
	"time"

	"workflow/internal/domain"
	planner "workflow/internal/domain/models/planner"
	"workflow/internal/domain/services"
	plannerSvc "workflow/internal/domain/services/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProjectFixture() (plannerSvc.ProjectService, *fakeProjectRepo, *fakeRecorder) {
	repo := newFakeProjectRepo()
	recorder := &fakeRecorder{}
	return NewProjectService(repo, recorder, discardLogger()), repo, recorder
}

func TestCreateProject(t *testing.T) {
	svc, _, recorder := newProjectFixture()

	project, err := svc.CreateProject(context.Background(), &plannerSvc.CreateProjectRequest{
		UserID:   owner1,
		Title:    "Launch",
		Deadline: strPtr("2026-12-01"),
	})
	require.NoError(t, err)

	assert.Equal(t, planner.DefaultProjectStatus, project.Status)
	require.NotNil(t, project.Deadline)
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), *project.Deadline)
	assert.Equal(t, "Created project 'Launch'", recorder.last().Description)
}

func TestCreateProject_Validation(t *testing.T) {
	svc, repo, _ := newProjectFixture()

	_, err := svc.CreateProject(context.Background(), &plannerSvc.CreateProjectRequest{UserID: owner1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateProject(context.Background(), &plannerSvc.CreateProjectRequest{
		UserID: owner1, Title: "Launch", Deadline: strPtr("next friday"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Zero(t, repo.len())
}

func TestUpdateProject(t *testing.T) {
	svc, _, recorder := newProjectFixture()
	project, err := svc.CreateProject(context.Background(), &plannerSvc.CreateProjectRequest{
		UserID: owner1, Title: "Launch", Deadline: strPtr("2026-12-01T09:00:00Z"),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProject(context.Background(), owner1, project.ID, &plannerSvc.UpdateProjectRequest{
		Status:   strPtr("On Hold"),
		Deadline: services.OptionalString{Present: true},
	})
	require.NoError(t, err)

	assert.Equal(t, "Launch", updated.Title)
	assert.Equal(t, "On Hold", updated.Status)
	assert.Nil(t, updated.Deadline)
	assert.Equal(t, "Updated project 'Launch'", recorder.last().Description)

	updated, err = svc.UpdateProject(context.Background(), owner1, project.ID, &plannerSvc.UpdateProjectRequest{
		Deadline: services.OptionalString{Present: true, Value: strPtr("2027-01-15")},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Deadline)
	assert.Equal(t, 2027, updated.Deadline.Year())
}

func TestUpdateProject_Errors(t *testing.T) {
	svc, _, _ := newProjectFixture()
	project, err := svc.CreateProject(context.Background(), &plannerSvc.CreateProjectRequest{UserID: owner1, Title: "Launch"})
	require.NoError(t, err)

	_, err = svc.UpdateProject(context.Background(), owner1, project.ID, &plannerSvc.UpdateProjectRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateProject(context.Background(), owner2, project.ID, &plannerSvc.UpdateProjectRequest{Title: strPtr("Mine")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.UpdateProject(context.Background(), owner1, project.ID, &plannerSvc.UpdateProjectRequest{
		Deadline: services.OptionalString{Present: true, Value: strPtr("soon")},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteProject(t *testing.T) {
	svc, repo, recorder := newProjectFixture()
	project, err := svc.CreateProject(context.Background(), &plannerSvc.CreateProjectRequest{UserID: owner1, Title: "Launch"})
	require.NoError(t, err)

	_, err = svc.DeleteProject(context.Background(), owner2, project.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	deleted, err := svc.DeleteProject(context.Background(), owner1, project.ID)
	require.NoError(t, err)

	assert.Equal(t, project.ID, deleted.ID)
	assert.Zero(t, repo.len())
	assert.Equal(t, "Deleted project 'Launch'", recorder.last().Description)
}
