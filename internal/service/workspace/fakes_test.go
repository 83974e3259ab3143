package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"workflow/internal/domain"
	"workflow/internal/domain/models"
	workspace "workflow/internal/domain/models/workspace"
	"workflow/internal/domain/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeItemRepo is an in-memory ItemRepository. Hooks let tests interleave
// "concurrent" changes with a running cascade.
type fakeItemRepo struct {
	mu    sync.Mutex
	items map[string]*workspace.Item
	seq   int

	deleteCalls [][]string

	// beforeListChildrenOf runs (unlocked) before each ListChildrenOf call
	beforeListChildrenOf func(call int, parentIDs []string)
	listChildrenOfCalls  int

	// failDeleteOnCall makes the n-th DeleteMany call (1-based) fail
	failDeleteOnCall int
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[string]*workspace.Item{}}
}

func (r *fakeItemRepo) Create(ctx context.Context, item *workspace.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	item.ID = fmt.Sprintf("item-%03d", r.seq)
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	stored := *item
	r.items[item.ID] = &stored
	return nil
}

func (r *fakeItemRepo) GetByID(ctx context.Context, id, userID string) (*workspace.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("item %s not found", id)}
	}
	out := *item
	return &out, nil
}

func (r *fakeItemRepo) ListChildren(ctx context.Context, userID string, parentID *string) ([]workspace.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	items := []workspace.Item{}
	for _, item := range r.items {
		if item.UserID != userID {
			continue
		}
		switch {
		case parentID == nil && item.ParentID == nil:
		case parentID != nil && item.ParentID != nil && *item.ParentID == *parentID:
		default:
			continue
		}
		items = append(items, *item)
	}
	sortItems(items)
	return items, nil
}

func (r *fakeItemRepo) ListChildrenOf(ctx context.Context, userID string, parentIDs []string) ([]workspace.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.listChildrenOfCalls++
	call := r.listChildrenOfCalls
	hook := r.beforeListChildrenOf
	r.mu.Unlock()

	if hook != nil {
		hook(call, parentIDs)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	parents := map[string]bool{}
	for _, id := range parentIDs {
		parents[id] = true
	}

	var items []workspace.Item
	for _, item := range r.items {
		if item.UserID == userID && item.ParentID != nil && parents[*item.ParentID] {
			items = append(items, *item)
		}
	}
	sortItems(items)
	return items, nil
}

func (r *fakeItemRepo) Update(ctx context.Context, item *workspace.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[item.ID]
	if !ok || existing.UserID != item.UserID {
		return &domain.NotFoundError{Message: fmt.Sprintf("item %s not found", item.ID)}
	}
	item.UpdatedAt = time.Now()
	stored := *item
	r.items[item.ID] = &stored
	return nil
}

func (r *fakeItemRepo) DeleteMany(ctx context.Context, userID string, ids []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deleteCalls = append(r.deleteCalls, append([]string(nil), ids...))
	if r.failDeleteOnCall > 0 && len(r.deleteCalls) == r.failDeleteOnCall {
		return nil, errors.New("connection reset by peer")
	}

	var deleted []string
	for _, id := range ids {
		if item, ok := r.items[id]; ok && item.UserID == userID {
			delete(r.items, id)
			deleted = append(deleted, id)
		}
	}
	return deleted, nil
}

// remove deletes an item behind the service's back
func (r *fakeItemRepo) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
}

// put stores an item as-is, bypassing Create
func (r *fakeItemRepo) put(item workspace.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = &item
}

func (r *fakeItemRepo) has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[id]
	return ok
}

func (r *fakeItemRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *fakeItemRepo) snapshot() map[string]workspace.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]workspace.Item, len(r.items))
	for id, item := range r.items {
		out[id] = *item
	}
	return out
}

func (r *fakeItemRepo) restore(snap map[string]workspace.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make(map[string]*workspace.Item, len(snap))
	for id, item := range snap {
		item := item
		r.items[id] = &item
	}
}

func sortItems(items []workspace.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsFolder() != items[j].IsFolder() {
			return items[i].IsFolder()
		}
		return items[i].Name < items[j].Name
	})
}

// fakeTxManager emulates rollback by restoring a snapshot of the item repo
type fakeTxManager struct {
	repo  *fakeItemRepo
	calls int
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	m.calls++
	snap := m.repo.snapshot()
	if err := fn(ctx); err != nil {
		m.repo.restore(snap)
		return err
	}
	return nil
}

// fakeCanvasRepo is an in-memory CanvasRepository
type fakeCanvasRepo struct {
	mu       sync.Mutex
	canvases map[string]*workspace.Canvas
	seq      int
	listErr  error
}

func newFakeCanvasRepo() *fakeCanvasRepo {
	return &fakeCanvasRepo{canvases: map[string]*workspace.Canvas{}}
}

func (r *fakeCanvasRepo) Create(ctx context.Context, canvas *workspace.Canvas) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	canvas.ID = fmt.Sprintf("cv-%03d", r.seq)
	now := time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	canvas.CreatedAt = now
	canvas.UpdatedAt = now

	stored := *canvas
	r.canvases[canvas.ID] = &stored
	return nil
}

func (r *fakeCanvasRepo) GetByID(ctx context.Context, id, userID string) (*workspace.Canvas, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	canvas, ok := r.canvases[id]
	if !ok || canvas.UserID != userID {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("canvas %s not found", id)}
	}
	out := *canvas
	return &out, nil
}

func (r *fakeCanvasRepo) List(ctx context.Context, userID string) ([]workspace.Canvas, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []workspace.Canvas{}
	for _, canvas := range r.canvases {
		if canvas.UserID == userID {
			out = append(out, *canvas)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeCanvasRepo) Update(ctx context.Context, canvas *workspace.Canvas) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.canvases[canvas.ID]
	if !ok || existing.UserID != canvas.UserID {
		return &domain.NotFoundError{Message: fmt.Sprintf("canvas %s not found", canvas.ID)}
	}
	canvas.UpdatedAt = time.Now()
	stored := *canvas
	r.canvases[canvas.ID] = &stored
	return nil
}

func (r *fakeCanvasRepo) Delete(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	canvas, ok := r.canvases[id]
	if !ok || canvas.UserID != userID {
		return &domain.NotFoundError{Message: fmt.Sprintf("canvas %s not found", id)}
	}
	delete(r.canvases, id)
	return nil
}

// fakeRecorder captures recorded activities
type fakeRecorder struct {
	mu         sync.Mutex
	activities []models.Activity
}

func (r *fakeRecorder) Record(_ context.Context, activity *models.Activity) {
	if activity == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activities = append(r.activities, *activity)
}

func (r *fakeRecorder) all() []models.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Activity(nil), r.activities...)
}

func (r *fakeRecorder) descriptions() []string {
	var out []string
	for _, a := range r.all() {
		out = append(out, a.Description)
	}
	return out
}

func (r *fakeRecorder) ofKind(kind models.ActivityKind) []models.Activity {
	var out []models.Activity
	for _, a := range r.all() {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}
