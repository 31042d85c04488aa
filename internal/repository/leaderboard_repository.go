package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/unicollab/study-api/internal/models"
)

// LeaderboardRepository manages tournament scores. Scores share the
// leaderboards table with the streak fields, keyed by user id.
type LeaderboardRepository struct {
	db *sqlx.DB
}

// NewLeaderboardRepository constructs a new repository.
func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// UpsertScore records a user's total points, overwriting any previous score.
func (r *LeaderboardRepository) UpsertScore(ctx context.Context, entry *models.LeaderboardEntry) error {
	if entry.CapturedAt.IsZero() {
		entry.CapturedAt = time.Now().UTC()
	}
	query := `INSERT INTO leaderboards (user_id, student_name, score, department, university, captured_at)
VALUES (:user_id, :student_name, :score, :department, :university, :captured_at)
ON CONFLICT (user_id) DO UPDATE SET
	student_name = EXCLUDED.student_name,
	score = EXCLUDED.score,
	department = EXCLUDED.department,
	university = EXCLUDED.university,
	captured_at = EXCLUDED.captured_at`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("upsert score for %s: %w", entry.UserID, err)
	}
	return nil
}

// Top returns the highest-scoring entries.
func (r *LeaderboardRepository) Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 25
	}
	var entries []models.LeaderboardEntry
	query := `SELECT user_id, COALESCE(student_name, '') AS student_name, COALESCE(score, 0) AS score,
COALESCE(department, '') AS department, COALESCE(university, '') AS university, COALESCE(captured_at, now()) AS captured_at
FROM leaderboards ORDER BY score DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("leaderboard top %d: %w", limit, err)
	}
	return entries, nil
}
