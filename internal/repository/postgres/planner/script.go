package planner

import (
	"context"
	"fmt"

	"workflow/internal/domain"
	models "workflow/internal/domain/models/planner"
	plannerRepo "workflow/internal/domain/repositories/planner"
	"workflow/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const scriptColumns = `id, user_id, title, description, code, language, created_at`

// PostgresScriptRepository implements the ScriptRepository interface
type PostgresScriptRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewScriptRepository creates a new script repository
func NewScriptRepository(config *postgres.RepositoryConfig) plannerRepo.ScriptRepository {
	return &PostgresScriptRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create stores a script
func (r *PostgresScriptRepository) Create(ctx context.Context, script *models.Script) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, title, description, code, language)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.tables.Scripts)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		script.UserID,
		script.Title,
		script.Description,
		script.Code,
		script.Language,
	).Scan(&script.ID, &script.CreatedAt)

	if err != nil {
		return fmt.Errorf("create script: %w", err)
	}

	return nil
}

// GetByID retrieves a script owned by userID
func (r *PostgresScriptRepository) GetByID(ctx context.Context, id, userID string) (*models.Script, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, scriptColumns, r.tables.Scripts)

	executor := postgres.GetExecutor(ctx, r.pool)
	script, err := scanScript(executor.QueryRow(ctx, query, id, userID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("script %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get script: %w", err)
	}

	return script, nil
}

// List returns the user's scripts, newest first
func (r *PostgresScriptRepository) List(ctx context.Context, userID string) ([]models.Script, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, scriptColumns, r.tables.Scripts)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list scripts: %w", err)
	}
	defer rows.Close()

	scripts := []models.Script{}
	for rows.Next() {
		script, err := scanScript(rows)
		if err != nil {
			return nil, fmt.Errorf("scan script: %w", err)
		}
		scripts = append(scripts, *script)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scripts: %w", err)
	}

	return scripts, nil
}

// Delete removes a script
func (r *PostgresScriptRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, r.tables.Scripts)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		if postgres.IsPgInvalidTextError(err) {
			return fmt.Errorf("script %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("delete script: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("script %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanScript(row pgx.Row) (*models.Script, error) {
	var script models.Script
	err := row.Scan(
		&script.ID,
		&script.UserID,
		&script.Title,
		&script.Description,
		&script.Code,
		&script.Language,
		&script.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &script, nil
}
