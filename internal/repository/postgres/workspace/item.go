package workspace

import (
	"context"
	"fmt"

	"workflow/internal/domain"
	models "workflow/internal/domain/models/workspace"
	workspaceRepo "workflow/internal/domain/repositories/workspace"
	"workflow/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const itemColumns = `id, user_id, type, name, parent_id, file_type, file_url, size, created_at, updated_at`

// Folders first, then alphabetical
const itemOrder = `ORDER BY (type = 'folder') DESC, name ASC, created_at ASC`

// PostgresItemRepository implements the ItemRepository interface.
// Folders and files share one table; file columns are NULL for folders.
type PostgresItemRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewItemRepository creates a new item repository
func NewItemRepository(config *postgres.RepositoryConfig) workspaceRepo.ItemRepository {
	return &PostgresItemRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a folder or file
func (r *PostgresItemRepository) Create(ctx context.Context, item *models.Item) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, type, name, parent_id, file_type, file_url, size)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, r.tables.Items)

	var fileType, fileURL *string
	var size *int64
	if item.File != nil {
		fileType = &item.File.FileType
		fileURL = &item.File.FileURL
		size = item.File.Size
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		item.UserID,
		string(item.Kind),
		item.Name,
		item.ParentID,
		fileType,
		fileURL,
		size,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create %s: %w", item.Kind, err)
	}

	return nil
}

// GetByID retrieves an item owned by userID
func (r *PostgresItemRepository) GetByID(ctx context.Context, id, userID string) (*models.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, itemColumns, r.tables.Items)

	executor := postgres.GetExecutor(ctx, r.pool)
	item, err := scanItem(executor.QueryRow(ctx, query, id, userID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	return item, nil
}

// ListChildren lists the direct children of parentID, or the root level when nil
func (r *PostgresItemRepository) ListChildren(ctx context.Context, userID string, parentID *string) ([]models.Item, error) {
	executor := postgres.GetExecutor(ctx, r.pool)

	var rows pgx.Rows
	var err error
	if parentID == nil {
		query := fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE user_id = $1 AND parent_id IS NULL
			%s
		`, itemColumns, r.tables.Items, itemOrder)
		rows, err = executor.Query(ctx, query, userID)
	} else {
		query := fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE user_id = $1 AND parent_id = $2
			%s
		`, itemColumns, r.tables.Items, itemOrder)
		rows, err = executor.Query(ctx, query, userID, *parentID)
	}
	if err != nil {
		if postgres.IsPgInvalidTextError(err) {
			// A malformed parent id cannot have children
			return []models.Item{}, nil
		}
		return nil, fmt.Errorf("list items: %w", err)
	}

	return collectItems(rows)
}

// ListChildrenOf lists the direct children of every id in parentIDs with a single query
func (r *PostgresItemRepository) ListChildrenOf(ctx context.Context, userID string, parentIDs []string) ([]models.Item, error) {
	if len(parentIDs) == 0 {
		return []models.Item{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1 AND parent_id = ANY($2::uuid[])
		%s
	`, itemColumns, r.tables.Items, itemOrder)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}

	return collectItems(rows)
}

// Update persists name and parent_id
func (r *PostgresItemRepository) Update(ctx context.Context, item *models.Item) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, parent_id = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING updated_at
	`, r.tables.Items)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		item.Name,
		item.ParentID,
		item.ID,
		item.UserID,
	).Scan(&item.UpdatedAt)

	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return fmt.Errorf("item %s: %w", item.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update item: %w", err)
	}

	return nil
}

// DeleteMany deletes the given ids and reports which rows were actually removed
func (r *PostgresItemRepository) DeleteMany(ctx context.Context, userID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = $1 AND id = ANY($2::uuid[])
		RETURNING id
	`, r.tables.Items)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("delete items: %w", err)
	}
	defer rows.Close()

	deleted := make([]string, 0, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan deleted id: %w", err)
		}
		deleted = append(deleted, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deleted ids: %w", err)
	}

	return deleted, nil
}

func collectItems(rows pgx.Rows) ([]models.Item, error) {
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return items, nil
}

func scanItem(row pgx.Row) (*models.Item, error) {
	var item models.Item
	var kind string
	var fileType, fileURL *string
	var size *int64

	err := row.Scan(
		&item.ID,
		&item.UserID,
		&kind,
		&item.Name,
		&item.ParentID,
		&fileType,
		&fileURL,
		&size,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Kind = models.ItemKind(kind)
	if item.Kind == models.KindFile {
		attrs := models.FileAttributes{Size: size}
		if fileType != nil {
			attrs.FileType = *fileType
		}
		if fileURL != nil {
			attrs.FileURL = *fileURL
		}
		item.File = &attrs
	}

	return &item, nil
}
