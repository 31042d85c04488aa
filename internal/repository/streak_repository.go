package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/unicollab/study-api/internal/models"
)

// StreakRepository reads and upserts the per-user streak fields on the
// leaderboards table. The row is never deleted by the pipeline.
type StreakRepository struct {
	db *sqlx.DB
}

// NewStreakRepository constructs a new repository.
func NewStreakRepository(db *sqlx.DB) *StreakRepository {
	return &StreakRepository{db: db}
}

// Find returns the streak record for a user, or nil when none exists yet.
func (r *StreakRepository) Find(ctx context.Context, userID string) (*models.Streak, error) {
	var streak models.Streak
	query := `SELECT user_id, streak, COALESCE(to_char(last_upload_date, 'YYYY-MM-DD'), '') AS last_upload_date
FROM leaderboards WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &streak, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find streak for %s: %w", userID, err)
	}
	return &streak, nil
}

// Upsert writes the new streak value and upload date keyed by user id.
func (r *StreakRepository) Upsert(ctx context.Context, userID string, count int, date string) error {
	query := `INSERT INTO leaderboards (user_id, streak, last_upload_date)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE SET streak = EXCLUDED.streak, last_upload_date = EXCLUDED.last_upload_date`
	if _, err := r.db.ExecContext(ctx, query, userID, count, date); err != nil {
		return fmt.Errorf("upsert streak for %s: %w", userID, err)
	}
	return nil
}
