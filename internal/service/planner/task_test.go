package planner

import (
	"context"
	"errors"
	"testing"

	"workflow/internal/domain"
	"workflow/internal/domain/models"
	planner "workflow/internal/domain/models/planner"
	plannerSvc "workflow/internal/domain/services/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	owner1 = "u1"
	owner2 = "u2"
)

func strPtr(s string) *string { return &s }

func newTaskFixture() (plannerSvc.TaskService, *fakeTaskRepo, *fakeRecorder) {
	repo := newFakeTaskRepo()
	recorder := &fakeRecorder{}
	return NewTaskService(repo, recorder, discardLogger()), repo, recorder
}

func createTask(t *testing.T, svc plannerSvc.TaskService, title string) *planner.Task {
	t.Helper()
	task, err := svc.CreateTask(context.Background(), &plannerSvc.CreateTaskRequest{UserID: owner1, Title: title})
	require.NoError(t, err)
	return task
}

func TestCreateTask_Defaults(t *testing.T) {
	svc, _, recorder := newTaskFixture()

	task := createTask(t, svc, "  Write report ")

	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, planner.PriorityMedium, task.Priority)
	assert.Equal(t, planner.StatusPending, task.Status)

	activity := recorder.last()
	assert.Equal(t, models.ActivityCreate, activity.Kind)
	assert.Equal(t, "Created task 'Write report' with medium priority", activity.Description)
	assert.Equal(t, task.ID, *activity.RelatedItemID)
}

func TestCreateTask_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  plannerSvc.CreateTaskRequest
	}{
		{"missing owner", plannerSvc.CreateTaskRequest{Title: "x"}},
		{"missing title", plannerSvc.CreateTaskRequest{UserID: owner1}},
		{"blank title", plannerSvc.CreateTaskRequest{UserID: owner1, Title: "   "}},
		{"unknown priority", plannerSvc.CreateTaskRequest{UserID: owner1, Title: "x", Priority: "urgent"}},
		{"unknown status", plannerSvc.CreateTaskRequest{UserID: owner1, Title: "x", Status: "in-progress"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, recorder := newTaskFixture()
			req := tt.req

			_, err := svc.CreateTask(context.Background(), &req)

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Zero(t, repo.len())
			assert.Zero(t, recorder.count())
		})
	}
}

func TestUpdateTask_DescribesChangedFields(t *testing.T) {
	svc, _, recorder := newTaskFixture()
	task := createTask(t, svc, "Report")

	updated, err := svc.UpdateTask(context.Background(), owner1, task.ID, &plannerSvc.UpdateTaskRequest{
		Title:    strPtr("Report"),
		Priority: strPtr(planner.PriorityHigh),
		Status:   strPtr(planner.StatusInProgress),
	})
	require.NoError(t, err)

	assert.Equal(t, planner.PriorityHigh, updated.Priority)
	assert.Equal(t, planner.StatusInProgress, updated.Status)
	assert.Equal(t, "Updated task 'Report' (priority, status)", recorder.last().Description)
}

func TestUpdateTask_NoEffectiveChange(t *testing.T) {
	svc, _, recorder := newTaskFixture()
	task := createTask(t, svc, "Report")

	_, err := svc.UpdateTask(context.Background(), owner1, task.ID, &plannerSvc.UpdateTaskRequest{
		Priority: strPtr(planner.PriorityMedium),
	})
	require.NoError(t, err)

	assert.Equal(t, "Updated task 'Report'", recorder.last().Description)
}

func TestUpdateTask_Errors(t *testing.T) {
	svc, _, _ := newTaskFixture()
	task := createTask(t, svc, "Report")

	_, err := svc.UpdateTask(context.Background(), owner1, task.ID, &plannerSvc.UpdateTaskRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateTask(context.Background(), owner1, task.ID, &plannerSvc.UpdateTaskRequest{Status: strPtr("done")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateTask(context.Background(), owner2, task.ID, &plannerSvc.UpdateTaskRequest{Title: strPtr("Mine")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompleteTask(t *testing.T) {
	svc, _, recorder := newTaskFixture()
	task := createTask(t, svc, "Report")

	completed, err := svc.CompleteTask(context.Background(), owner1, task.ID)
	require.NoError(t, err)

	assert.Equal(t, planner.StatusCompleted, completed.Status)
	activity := recorder.last()
	assert.Equal(t, models.ActivityComplete, activity.Kind)
	assert.Equal(t, "Completed task 'Report'", activity.Description)

	_, err = svc.CompleteTask(context.Background(), owner2, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetStatus(t *testing.T) {
	svc, _, recorder := newTaskFixture()
	task := createTask(t, svc, "Report")

	updated, err := svc.SetStatus(context.Background(), owner1, task.ID, planner.StatusInProgress)
	require.NoError(t, err)

	assert.Equal(t, planner.StatusInProgress, updated.Status)
	assert.Equal(t, "Changed task 'Report' status from 'pending' to 'in_progress'", recorder.last().Description)

	_, err = svc.SetStatus(context.Background(), owner1, task.ID, "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.SetStatus(context.Background(), owner1, task.ID, "archived")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListTasks_FiltersByStatus(t *testing.T) {
	svc, _, _ := newTaskFixture()
	a := createTask(t, svc, "a")
	createTask(t, svc, "b")
	_, err := svc.CompleteTask(context.Background(), owner1, a.ID)
	require.NoError(t, err)

	all, err := svc.ListTasks(context.Background(), owner1, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	done, err := svc.ListTasks(context.Background(), owner1, planner.StatusCompleted)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, a.ID, done[0].ID)

	none, err := svc.ListTasks(context.Background(), owner2, "")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = svc.ListTasks(context.Background(), owner1, "bogus")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteTask(t *testing.T) {
	svc, repo, recorder := newTaskFixture()
	task := createTask(t, svc, "Report")

	_, err := svc.DeleteTask(context.Background(), owner2, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	deleted, err := svc.DeleteTask(context.Background(), owner1, task.ID)
	require.NoError(t, err)

	assert.Equal(t, "Report", deleted.Title)
	assert.Zero(t, repo.len())
	assert.Equal(t, "Deleted task 'Report'", recorder.last().Description)
}

func TestTaskService_StoreFailure(t *testing.T) {
	svc, repo, _ := newTaskFixture()
	repo.err = errors.New("connection refused")

	_, err := svc.CreateTask(context.Background(), &plannerSvc.CreateTaskRequest{UserID: owner1, Title: "x"})
	assert.ErrorIs(t, err, domain.ErrPersistence)

	_, err = svc.ListTasks(context.Background(), owner1, "")
	assert.ErrorIs(t, err, domain.ErrPersistence)
}
