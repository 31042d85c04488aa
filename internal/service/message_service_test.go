package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicollab/study-api/internal/models"
	appErrors "github.com/unicollab/study-api/pkg/errors"
)

type mockMessageRepo struct {
	inserted *models.Message
	history  []models.Message
}

func (m *mockMessageRepo) Insert(ctx context.Context, message *models.Message) error {
	message.ID = "msg-1"
	copied := *message
	m.inserted = &copied
	return nil
}

func (m *mockMessageRepo) PrivateHistory(ctx context.Context, userA, userB string) ([]models.Message, error) {
	return m.history, nil
}

func (m *mockMessageRepo) GroupHistory(ctx context.Context, groupID string, limit int) ([]models.Message, error) {
	return m.history, nil
}

func TestFilterContentMasksWholeWords(t *testing.T) {
	svc := NewMessageService(&mockMessageRepo{}, []string{"scam", "olodo"}, nil, nil)

	assert.Equal(t, "this is a ***", svc.FilterContent("this is a scam"))
	assert.Equal(t, "that *** again", svc.FilterContent("that OLODO again"))
	// Substrings inside longer words stay untouched.
	assert.Equal(t, "scampi is food", svc.FilterContent("scampi is food"))
}

func TestSendSanitizesBeforeStoring(t *testing.T) {
	repo := &mockMessageRepo{}
	svc := NewMessageService(repo, []string{"scam"}, nil, nil)

	msg, err := svc.Send(context.Background(), SendMessageRequest{
		SenderID:   "u1",
		ReceiverID: "u2",
		Content:    "what a scam",
	})
	require.NoError(t, err)
	assert.Equal(t, "what a ***", msg.Content)
	require.NotNil(t, repo.inserted)
	assert.Equal(t, "what a ***", repo.inserted.Content)
}

func TestSendRejectsEmptyContent(t *testing.T) {
	svc := NewMessageService(&mockMessageRepo{}, nil, nil, nil)

	_, err := svc.Send(context.Background(), SendMessageRequest{SenderID: "u1", ReceiverID: "u2", Content: "   "})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidInput.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "empty")
}
