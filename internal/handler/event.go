package handler

import (
	"log/slog"
	"net/http"
	"time"

	"workflow/internal/domain/models/planner"
	plannerSvc "workflow/internal/domain/services/planner"
	"workflow/internal/httputil"
)

// EventHandler handles calendar event HTTP requests
type EventHandler struct {
	eventService plannerSvc.EventService
	logger       *slog.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService plannerSvc.EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		logger:       logger,
	}
}

// ListEvents lists events, optionally within [start, end]
// GET /api/events?start=&end=
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var rng planner.EventRange
	var err error
	if rng.Start, err = timeQuery(r, "start"); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "start must be an RFC 3339 timestamp or YYYY-MM-DD date")
		return
	}
	if rng.End, err = timeQuery(r, "end"); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "end must be an RFC 3339 timestamp or YYYY-MM-DD date")
		return
	}

	events, err := h.eventService.ListEvents(r.Context(), userID, rng)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, events)
}

// CreateEvent creates an event
// POST /api/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req plannerSvc.CreateEventRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = userID

	event, err := h.eventService.CreateEvent(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, event)
}

// GetEvent retrieves an event
// GET /api/events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Event")
	if !ok {
		return
	}

	event, err := h.eventService.GetEvent(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, event)
}

// UpdateEvent applies a partial update
// PATCH /api/events/{id}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Event")
	if !ok {
		return
	}

	var req plannerSvc.UpdateEventRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := h.eventService.UpdateEvent(r.Context(), userID, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, event)
}

// DeleteEvent deletes an event
// DELETE /api/events/{id}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "Event")
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(r.Context(), userID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteAllEvents clears the user's calendar
// DELETE /api/events
func (h *EventHandler) DeleteAllEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	n, err := h.eventService.DeleteAllEvents(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

// timeQuery parses an RFC 3339 or date-only query parameter; absent yields the zero time
func timeQuery(r *http.Request, name string) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, value)
}
