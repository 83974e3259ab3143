package planner

import (
	"context"
	"testing"
	"time"

	"workflow/internal/domain"
	planner "workflow/internal/domain/models/planner"
	plannerSvc "workflow/internal/domain/services/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

func newEventFixture() (plannerSvc.EventService, *fakeEventRepo, *fakeRecorder) {
	repo := newFakeEventRepo()
	recorder := &fakeRecorder{}
	return NewEventService(repo, recorder, discardLogger()), repo, recorder
}

func createEvent(t *testing.T, svc plannerSvc.EventService, userID, title string, start time.Time, hours int) *planner.Event {
	t.Helper()
	event, err := svc.CreateEvent(context.Background(), &plannerSvc.CreateEventRequest{
		UserID:    userID,
		Title:     title,
		StartDate: start,
		EndDate:   start.Add(time.Duration(hours) * time.Hour),
	})
	require.NoError(t, err)
	return event
}

func TestCreateEvent(t *testing.T) {
	svc, _, recorder := newEventFixture()

	event := createEvent(t, svc, owner1, "Standup", day.Add(9*time.Hour), 1)

	assert.Equal(t, "Standup", event.Title)
	assert.Equal(t, "Created event 'Standup'", recorder.last().Description)
}

func TestCreateEvent_Validation(t *testing.T) {
	svc, repo, _ := newEventFixture()

	_, err := svc.CreateEvent(context.Background(), &plannerSvc.CreateEventRequest{
		UserID: owner1, Title: "Backwards", StartDate: day.Add(2 * time.Hour), EndDate: day,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateEvent(context.Background(), &plannerSvc.CreateEventRequest{UserID: owner1, Title: "No dates"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Zero(t, repo.len())
}

func TestListEvents_Range(t *testing.T) {
	svc, _, _ := newEventFixture()
	late := createEvent(t, svc, owner1, "Late", day.Add(20*time.Hour), 1)
	early := createEvent(t, svc, owner1, "Early", day.Add(8*time.Hour), 1)
	createEvent(t, svc, owner1, "Tomorrow", day.Add(33*time.Hour), 1)
	createEvent(t, svc, owner2, "Someone else", day.Add(9*time.Hour), 1)

	events, err := svc.ListEvents(context.Background(), owner1, planner.EventRange{Start: day, End: day.Add(24 * time.Hour)})
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, early.ID, events[0].ID)
	assert.Equal(t, late.ID, events[1].ID)

	_, err = svc.ListEvents(context.Background(), owner1, planner.EventRange{Start: day, End: day.Add(-time.Hour)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateEvent(t *testing.T) {
	svc, _, recorder := newEventFixture()
	event := createEvent(t, svc, owner1, "Standup", day.Add(9*time.Hour), 1)

	allDay := true
	updated, err := svc.UpdateEvent(context.Background(), owner1, event.ID, &plannerSvc.UpdateEventRequest{
		Title:  strPtr("Retro"),
		AllDay: &allDay,
	})
	require.NoError(t, err)

	assert.Equal(t, "Retro", updated.Title)
	assert.True(t, updated.AllDay)
	assert.Equal(t, "Updated event 'Retro'", recorder.last().Description)

	// Moving only the end before the stored start is rejected
	end := day
	_, err = svc.UpdateEvent(context.Background(), owner1, event.ID, &plannerSvc.UpdateEventRequest{EndDate: &end})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateEvent(context.Background(), owner2, event.ID, &plannerSvc.UpdateEventRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteEvents(t *testing.T) {
	svc, repo, recorder := newEventFixture()
	a := createEvent(t, svc, owner1, "a", day, 1)
	createEvent(t, svc, owner1, "b", day, 1)
	createEvent(t, svc, owner1, "c", day, 1)
	createEvent(t, svc, owner2, "d", day, 1)

	require.NoError(t, svc.DeleteEvent(context.Background(), owner1, a.ID))
	assert.Equal(t, "Deleted event 'a'", recorder.last().Description)
	assert.ErrorIs(t, svc.DeleteEvent(context.Background(), owner1, a.ID), domain.ErrNotFound)

	count, err := svc.DeleteAllEvents(context.Background(), owner1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, "Deleted all events (2)", recorder.last().Description)
	assert.Equal(t, 1, repo.len())

	before := recorder.count()
	count, err = svc.DeleteAllEvents(context.Background(), owner1)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, before, recorder.count(), "clearing an empty calendar is not audited")
}
