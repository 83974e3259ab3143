package workspace_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"workflow/internal/database"
	"workflow/internal/domain"
	"workflow/internal/domain/models"
	workspaceModels "workflow/internal/domain/models/workspace"
	workspaceSvc "workflow/internal/domain/services/workspace"
	"workflow/internal/repository/postgres"
	postgresWorkspace "workflow/internal/repository/postgres/workspace"
	serviceWorkspace "workflow/internal/service/workspace"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrefix = "itest_"

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, *models.Activity) {}

// setup migrates a throwaway prefix and tears it down afterwards.
// Skipped unless TEST_DATABASE_URL is set.
func setup(t *testing.T) *postgres.RepositoryConfig {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.Open(ctx, url)
	require.NoError(t, err)
	require.NoError(t, database.Up(ctx, db, testPrefix, logger))

	pool, err := postgres.CreateConnectionPool(ctx, url)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
		_ = database.Down(ctx, db, testPrefix, logger)
		_ = database.Down(ctx, db, testPrefix, logger)
		db.Close()
	})

	return &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(testPrefix),
		Logger: logger,
	}
}

func newService(cfg *postgres.RepositoryConfig, opts serviceWorkspace.ItemOptions) workspaceSvc.ItemService {
	return serviceWorkspace.NewItemService(
		postgresWorkspace.NewItemRepository(cfg),
		postgresWorkspace.NewCanvasRepository(cfg),
		postgres.NewTransactionManager(cfg),
		noopRecorder{},
		opts,
		cfg.Logger,
	)
}

func TestItemTree_Postgres(t *testing.T) {
	cfg := setup(t)
	ctx := context.Background()
	svc := newService(cfg, serviceWorkspace.ItemOptions{StrictParents: true, AtomicDelete: true, DeleteBatchSize: 2})
	owner := uuid.NewString()
	stranger := uuid.NewString()

	docs, err := svc.CreateFolder(ctx, &workspaceSvc.CreateFolderRequest{UserID: owner, Name: "Docs"})
	require.NoError(t, err)
	sub, err := svc.CreateFolder(ctx, &workspaceSvc.CreateFolderRequest{UserID: owner, Name: "Sub", ParentID: &docs.ID})
	require.NoError(t, err)
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		_, err := svc.CreateFile(ctx, &workspaceSvc.CreateFileRequest{UserID: owner, Name: name, ParentID: &sub.ID})
		require.NoError(t, err)
	}

	children, err := svc.ListChildren(ctx, owner, &sub.ID)
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, workspaceModels.DefaultFileType, children[0].File.FileType)

	hidden, err := svc.ListChildren(ctx, stranger, &sub.ID)
	require.NoError(t, err)
	assert.Empty(t, hidden)

	_, err = svc.Move(ctx, owner, docs.ID, &sub.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.GetItem(ctx, owner, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	result, err := svc.Delete(ctx, owner, docs.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Deleted)

	root, err := svc.ListChildren(ctx, owner, nil)
	require.NoError(t, err)
	assert.Empty(t, root)
}
