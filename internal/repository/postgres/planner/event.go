package planner

import (
	"context"
	"fmt"
	"time"

	"workflow/internal/domain"
	models "workflow/internal/domain/models/planner"
	plannerRepo "workflow/internal/domain/repositories/planner"
	"workflow/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `id, user_id, title, description, start_date, end_date, all_day, color, created_at, updated_at`

// PostgresEventRepository implements the EventRepository interface
type PostgresEventRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewEventRepository creates a new event repository
func NewEventRepository(config *postgres.RepositoryConfig) plannerRepo.EventRepository {
	return &PostgresEventRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new event
func (r *PostgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, title, description, start_date, end_date, all_day, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, r.tables.Events)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		event.UserID,
		event.Title,
		event.Description,
		event.StartDate,
		event.EndDate,
		event.AllDay,
		event.Color,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	return nil
}

// GetByID retrieves an event owned by userID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id, userID string) (*models.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, eventColumns, r.tables.Events)

	executor := postgres.GetExecutor(ctx, r.pool)
	event, err := scanEvent(executor.QueryRow(ctx, query, id, userID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("event %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	return event, nil
}

// List returns events that start after r.Start and end before r.End, ordered by start
func (r *PostgresEventRepository) List(ctx context.Context, userID string, rng models.EventRange) ([]models.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR start_date >= $2)
		  AND ($3::timestamptz IS NULL OR end_date <= $3)
		ORDER BY start_date ASC
	`, eventColumns, r.tables.Events)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, optionalTime(rng.Start), optionalTime(rng.End))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// Update persists every editable event field
func (r *PostgresEventRepository) Update(ctx context.Context, event *models.Event) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, start_date = $3, end_date = $4,
		    all_day = $5, color = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
		RETURNING updated_at
	`, r.tables.Events)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		event.Title,
		event.Description,
		event.StartDate,
		event.EndDate,
		event.AllDay,
		event.Color,
		event.ID,
		event.UserID,
	).Scan(&event.UpdatedAt)

	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return fmt.Errorf("event %s: %w", event.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update event: %w", err)
	}

	return nil
}

// Delete removes one event
func (r *PostgresEventRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, r.tables.Events)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		if postgres.IsPgInvalidTextError(err) {
			return fmt.Errorf("event %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("delete event: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteAll removes every event of a user
func (r *PostgresEventRepository) DeleteAll(ctx context.Context, userID string) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, r.tables.Events)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("delete all events: %w", err)
	}

	return result.RowsAffected(), nil
}

// optionalTime maps the zero time to NULL
func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var event models.Event
	err := row.Scan(
		&event.ID,
		&event.UserID,
		&event.Title,
		&event.Description,
		&event.StartDate,
		&event.EndDate,
		&event.AllDay,
		&event.Color,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}
