package planner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"workflow/internal/domain"
	"workflow/internal/domain/models"
	planner "workflow/internal/domain/models/planner"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is the owner-scoped map shared by the planner fakes
type memStore[T any] struct {
	mu     sync.Mutex
	rows   map[string]*T
	order  []string
	seq    int
	prefix string
	id     func(*T) *string
	owner  func(*T) string
	err    error
}

func newMemStore[T any](prefix string, id func(*T) *string, owner func(*T) string) *memStore[T] {
	return &memStore[T]{rows: map[string]*T{}, prefix: prefix, id: id, owner: owner}
}

func (s *memStore[T]) create(row *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.seq++
	*s.id(row) = fmt.Sprintf("%s-%03d", s.prefix, s.seq)
	stored := *row
	s.rows[*s.id(row)] = &stored
	s.order = append(s.order, *s.id(row))
	return nil
}

func (s *memStore[T]) get(id, userID string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	row, ok := s.rows[id]
	if !ok || s.owner(row) != userID {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("%s %s not found", s.prefix, id)}
	}
	out := *row
	return &out, nil
}

func (s *memStore[T]) list(userID string, keep func(*T) bool) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []T{}
	for _, id := range s.order {
		row, ok := s.rows[id]
		if !ok || s.owner(row) != userID {
			continue
		}
		if keep != nil && !keep(row) {
			continue
		}
		out = append(out, *row)
	}
	return out
}

func (s *memStore[T]) update(row *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	existing, ok := s.rows[*s.id(row)]
	if !ok || s.owner(existing) != s.owner(row) {
		return &domain.NotFoundError{Message: fmt.Sprintf("%s %s not found", s.prefix, *s.id(row))}
	}
	stored := *row
	s.rows[*s.id(row)] = &stored
	return nil
}

func (s *memStore[T]) delete(id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	row, ok := s.rows[id]
	if !ok || s.owner(row) != userID {
		return &domain.NotFoundError{Message: fmt.Sprintf("%s %s not found", s.prefix, id)}
	}
	delete(s.rows, id)
	return nil
}

func (s *memStore[T]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

type fakeTaskRepo struct{ *memStore[planner.Task] }

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{newMemStore("task",
		func(t *planner.Task) *string { return &t.ID },
		func(t *planner.Task) string { return t.UserID })}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *planner.Task) error {
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	return r.create(task)
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id, userID string) (*planner.Task, error) {
	return r.get(id, userID)
}

func (r *fakeTaskRepo) List(_ context.Context, userID, status string) ([]planner.Task, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.list(userID, func(t *planner.Task) bool { return status == "" || t.Status == status }), nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *planner.Task) error {
	return r.update(task)
}

func (r *fakeTaskRepo) Delete(_ context.Context, id, userID string) error {
	return r.delete(id, userID)
}

type fakeProjectRepo struct{ *memStore[planner.Project] }

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{newMemStore("project",
		func(p *planner.Project) *string { return &p.ID },
		func(p *planner.Project) string { return p.UserID })}
}

func (r *fakeProjectRepo) Create(_ context.Context, project *planner.Project) error {
	return r.create(project)
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id, userID string) (*planner.Project, error) {
	return r.get(id, userID)
}

func (r *fakeProjectRepo) List(_ context.Context, userID string) ([]planner.Project, error) {
	return r.list(userID, nil), nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *planner.Project) error {
	return r.update(project)
}

func (r *fakeProjectRepo) Delete(_ context.Context, id, userID string) error {
	return r.delete(id, userID)
}

type fakeEventRepo struct{ *memStore[planner.Event] }

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{newMemStore("event",
		func(e *planner.Event) *string { return &e.ID },
		func(e *planner.Event) string { return e.UserID })}
}

func (r *fakeEventRepo) Create(_ context.Context, event *planner.Event) error {
	return r.create(event)
}

func (r *fakeEventRepo) GetByID(_ context.Context, id, userID string) (*planner.Event, error) {
	return r.get(id, userID)
}

// List keeps events overlapping the range, ordered by start date
func (r *fakeEventRepo) List(_ context.Context, userID string, rng planner.EventRange) ([]planner.Event, error) {
	events := r.list(userID, func(e *planner.Event) bool {
		if !rng.Start.IsZero() && e.EndDate.Before(rng.Start) {
			return false
		}
		if !rng.End.IsZero() && e.StartDate.After(rng.End) {
			return false
		}
		return true
	})
	sort.SliceStable(events, func(i, j int) bool { return events[i].StartDate.Before(events[j].StartDate) })
	return events, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *planner.Event) error {
	return r.update(event)
}

func (r *fakeEventRepo) Delete(_ context.Context, id, userID string) error {
	return r.delete(id, userID)
}

func (r *fakeEventRepo) DeleteAll(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, e := range r.list(userID, nil) {
		if err := r.delete(e.ID, userID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

type fakeScriptRepo struct{ *memStore[planner.Script] }

func newFakeScriptRepo() *fakeScriptRepo {
	return &fakeScriptRepo{newMemStore("script",
		func(s *planner.Script) *string { return &s.ID },
		func(s *planner.Script) string { return s.UserID })}
}

func (r *fakeScriptRepo) Create(_ context.Context, script *planner.Script) error {
	return r.create(script)
}

func (r *fakeScriptRepo) GetByID(_ context.Context, id, userID string) (*planner.Script, error) {
	return r.get(id, userID)
}

func (r *fakeScriptRepo) List(_ context.Context, userID string) ([]planner.Script, error) {
	return r.list(userID, nil), nil
}

func (r *fakeScriptRepo) Delete(_ context.Context, id, userID string) error {
	return r.delete(id, userID)
}

// fakeRecorder captures recorded activities
type fakeRecorder struct {
	mu         sync.Mutex
	activities []models.Activity
}

func (r *fakeRecorder) Record(_ context.Context, activity *models.Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activities = append(r.activities, *activity)
}

func (r *fakeRecorder) last() models.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activities[len(r.activities)-1]
}

func (r *fakeRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.activities)
}
