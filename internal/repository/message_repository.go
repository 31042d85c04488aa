package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unicollab/study-api/internal/models"
)

// MessageRepository persists chat messages.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository constructs a new repository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Insert stores a new message.
func (r *MessageRepository) Insert(ctx context.Context, message *models.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO messages (id, sender_id, receiver_id, content, is_group_msg, created_at)
VALUES (:id, :sender_id, :receiver_id, :content, :is_group_msg, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, message); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// PrivateHistory returns the DM history between two users, oldest first.
func (r *MessageRepository) PrivateHistory(ctx context.Context, userA, userB string) ([]models.Message, error) {
	var messages []models.Message
	query := `SELECT id, sender_id, receiver_id, content, is_group_msg, created_at FROM messages
WHERE is_group_msg = FALSE
  AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &messages, query, userA, userB); err != nil {
		return nil, fmt.Errorf("private history %s/%s: %w", userA, userB, err)
	}
	return messages, nil
}

// GroupHistory returns the most recent messages for a group hub, oldest
// first within the window.
func (r *MessageRepository) GroupHistory(ctx context.Context, groupID string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	var messages []models.Message
	query := `SELECT id, sender_id, receiver_id, content, is_group_msg, created_at FROM messages
WHERE is_group_msg = TRUE AND receiver_id = $1
ORDER BY created_at ASC LIMIT $2`
	if err := r.db.SelectContext(ctx, &messages, query, groupID, limit); err != nil {
		return nil, fmt.Errorf("group history %s: %w", groupID, err)
	}
	return messages, nil
}
