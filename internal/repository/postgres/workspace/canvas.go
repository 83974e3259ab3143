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

// PostgresCanvasRepository implements the CanvasRepository interface
type PostgresCanvasRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewCanvasRepository creates a new canvas repository
func NewCanvasRepository(config *postgres.RepositoryConfig) workspaceRepo.CanvasRepository {
	return &PostgresCanvasRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create stores a new canvas
func (r *PostgresCanvasRepository) Create(ctx context.Context, canvas *models.Canvas) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, description, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, r.tables.Canvas)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		canvas.UserID,
		canvas.Name,
		canvas.Description,
		[]byte(canvas.Content),
	).Scan(&canvas.ID, &canvas.CreatedAt, &canvas.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create canvas: %w", err)
	}

	return nil
}

// GetByID retrieves a canvas owned by userID
func (r *PostgresCanvasRepository) GetByID(ctx context.Context, id, userID string) (*models.Canvas, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, description, content, created_at, updated_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Canvas)

	executor := postgres.GetExecutor(ctx, r.pool)
	canvas, err := scanCanvas(executor.QueryRow(ctx, query, id, userID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("canvas %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get canvas: %w", err)
	}

	return canvas, nil
}

// List returns all canvases of a user, newest first
func (r *PostgresCanvasRepository) List(ctx context.Context, userID string) ([]models.Canvas, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, description, content, created_at, updated_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, r.tables.Canvas)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list canvases: %w", err)
	}
	defer rows.Close()

	canvases := []models.Canvas{}
	for rows.Next() {
		canvas, err := scanCanvas(rows)
		if err != nil {
			return nil, fmt.Errorf("scan canvas: %w", err)
		}
		canvases = append(canvases, *canvas)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate canvases: %w", err)
	}

	return canvases, nil
}

// Update persists name, description and content
func (r *PostgresCanvasRepository) Update(ctx context.Context, canvas *models.Canvas) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, content = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING updated_at
	`, r.tables.Canvas)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		canvas.Name,
		canvas.Description,
		[]byte(canvas.Content),
		canvas.ID,
		canvas.UserID,
	).Scan(&canvas.UpdatedAt)

	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return fmt.Errorf("canvas %s: %w", canvas.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update canvas: %w", err)
	}

	return nil
}

// Delete removes a canvas
func (r *PostgresCanvasRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Canvas)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		if postgres.IsPgInvalidTextError(err) {
			return fmt.Errorf("canvas %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("delete canvas: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("canvas %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanCanvas(row pgx.Row) (*models.Canvas, error) {
	var canvas models.Canvas
	var content []byte
	err := row.Scan(
		&canvas.ID,
		&canvas.UserID,
		&canvas.Name,
		&canvas.Description,
		&content,
		&canvas.CreatedAt,
		&canvas.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	canvas.Content = content
	return &canvas, nil
}
