package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unicollab/study-api/internal/models"
	appErrors "github.com/unicollab/study-api/pkg/errors"
)

type messageRepository interface {
	Insert(ctx context.Context, message *models.Message) error
	PrivateHistory(ctx context.Context, userA, userB string) ([]models.Message, error)
	GroupHistory(ctx context.Context, groupID string, limit int) ([]models.Message, error)
}

// MessageService handles DM and group-hub messaging with a banned-word
// filter applied before anything is stored.
type MessageService struct {
	repo      messageRepository
	validator *validator.Validate
	logger    *zap.Logger
	banned    []*regexp.Regexp
}

// NewMessageService compiles the banned-word patterns once at construction.
func NewMessageService(repo messageRepository, bannedWords []string, validate *validator.Validate, logger *zap.Logger) *MessageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	banned := make([]*regexp.Regexp, 0, len(bannedWords))
	for _, word := range bannedWords {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		banned = append(banned, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return &MessageService{repo: repo, validator: validate, logger: logger, banned: banned}
}

// SendMessageRequest describes an outgoing message.
type SendMessageRequest struct {
	SenderID   string `json:"senderId" validate:"required"`
	ReceiverID string `json:"receiverId" validate:"required"`
	Content    string `json:"content" validate:"required"`
	IsGroup    bool   `json:"isGroup"`
}

// FilterContent masks whole-word occurrences of banned words.
func (s *MessageService) FilterContent(text string) string {
	for _, pattern := range s.banned {
		text = pattern.ReplaceAllString(text, "***")
	}
	return text
}

// Send sanitizes and stores a message.
func (s *MessageService) Send(ctx context.Context, req SendMessageRequest) (*models.Message, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "message content cannot be empty")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}

	message := &models.Message{
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Content:    s.FilterContent(req.Content),
		IsGroupMsg: req.IsGroup,
	}
	if err := s.repo.Insert(ctx, message); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to store message")
	}
	return message, nil
}

// PrivateHistory returns the DM thread between two users.
func (s *MessageService) PrivateHistory(ctx context.Context, userA, userB string) ([]models.Message, error) {
	if userA == "" || userB == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "both participant ids are required")
	}
	messages, err := s.repo.PrivateHistory(ctx, userA, userB)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, fmt.Sprintf("failed to load history for %s/%s", userA, userB))
	}
	return messages, nil
}

// GroupHistory returns the recent messages of a group hub.
func (s *MessageService) GroupHistory(ctx context.Context, groupID string) ([]models.Message, error) {
	if groupID == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "group id is required")
	}
	messages, err := s.repo.GroupHistory(ctx, groupID, 50)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load group history")
	}
	return messages, nil
}
