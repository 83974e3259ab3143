package postgres

import (
	"context"
	"fmt"

	"workflow/internal/domain/models"
	"workflow/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresActivityRepository implements the ActivityRepository interface
type PostgresActivityRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(config *RepositoryConfig) repositories.ActivityRepository {
	return &PostgresActivityRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create appends an activity row
func (r *PostgresActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, activity_type, description, related_item_id, related_item_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, timestamp
	`, r.tables.Activities)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		activity.UserID,
		string(activity.Kind),
		activity.Description,
		activity.RelatedItemID,
		activity.RelatedItemType,
	).Scan(&activity.ID, &activity.Timestamp)

	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}

	return nil
}

// ListRecent returns the newest activities of a user
func (r *PostgresActivityRepository) ListRecent(ctx context.Context, userID string, limit int) ([]models.Activity, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, activity_type, description, related_item_id, related_item_type, timestamp
		FROM %s
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`, r.tables.Activities)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		var kind string
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&kind,
			&a.Description,
			&a.RelatedItemID,
			&a.RelatedItemType,
			&a.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Kind = models.ActivityKind(kind)
		activities = append(activities, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}

	return activities, nil
}
