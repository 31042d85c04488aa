package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unicollab/study-api/internal/models"
)

// MaterialRepository manages persistence for uploaded study materials.
type MaterialRepository struct {
	db *sqlx.DB
}

// NewMaterialRepository constructs a new repository.
func NewMaterialRepository(db *sqlx.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// Insert stores a new material row, generating the id when absent.
func (r *MaterialRepository) Insert(ctx context.Context, material *models.Material) error {
	if material.ID == "" {
		material.ID = uuid.NewString()
	}
	if material.CreatedAt.IsZero() {
		material.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO user_materials (id, user_id, file_url, title, summary, quiz_json, raw_text, created_at)
VALUES (:id, :user_id, :file_url, :title, :summary, :quiz_json, :raw_text, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, material); err != nil {
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// FindByID returns one material including its quiz payload.
func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*models.Material, error) {
	var material models.Material
	query := `SELECT id, user_id, file_url, title, summary, quiz_json, raw_text, created_at FROM user_materials WHERE id = $1`
	if err := r.db.GetContext(ctx, &material, query, id); err != nil {
		return nil, fmt.Errorf("find material %s: %w", id, err)
	}
	return &material, nil
}

// FindRawText returns only the stored extracted text for flashcard
// generation. Callers distinguish missing rows via sql.ErrNoRows.
func (r *MaterialRepository) FindRawText(ctx context.Context, id string) (string, error) {
	var raw string
	if err := r.db.GetContext(ctx, &raw, "SELECT raw_text FROM user_materials WHERE id = $1", id); err != nil {
		return "", err
	}
	return raw, nil
}

// ListByUser returns a user's materials, newest first, without raw text.
func (r *MaterialRepository) ListByUser(ctx context.Context, userID string) ([]models.Material, error) {
	var materials []models.Material
	query := `SELECT id, user_id, file_url, title, summary, quiz_json, created_at FROM user_materials WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &materials, query, userID); err != nil {
		return nil, fmt.Errorf("list materials for %s: %w", userID, err)
	}
	return materials, nil
}

// Delete removes a material row.
func (r *MaterialRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM user_materials WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete material %s: %w", id, err)
	}
	return nil
}
