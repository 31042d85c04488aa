package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicollab/study-api/internal/models"
	appErrors "github.com/unicollab/study-api/pkg/errors"
)

type mockMaterialRepo struct {
	inserted  *models.Material
	insertErr error
	rawText   map[string]string
	listResp  []models.Material
	deleted   []string
}

func (m *mockMaterialRepo) Insert(ctx context.Context, material *models.Material) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	if material.ID == "" {
		material.ID = "mat-1"
	}
	copied := *material
	m.inserted = &copied
	return nil
}

func (m *mockMaterialRepo) FindRawText(ctx context.Context, id string) (string, error) {
	if raw, ok := m.rawText[id]; ok {
		return raw, nil
	}
	return "", sql.ErrNoRows
}

func (m *mockMaterialRepo) ListByUser(ctx context.Context, userID string) ([]models.Material, error) {
	return m.listResp, nil
}

func (m *mockMaterialRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockStreakRepo struct {
	record     *models.Streak
	findErr    error
	upsertErr  error
	upserted   []int
	upsertDate string
}

func (m *mockStreakRepo) Find(ctx context.Context, userID string) (*models.Streak, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.record, nil
}

func (m *mockStreakRepo) Upsert(ctx context.Context, userID string, count int, date string) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, count)
	m.upsertDate = date
	return nil
}

type mockStore struct {
	uploads int
	lastKey string
	err     error
}

func (m *mockStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.uploads++
	m.lastKey = key
	return "http://store/study-materials/" + key, nil
}

type mockAI struct {
	calls int
	reply string
	err   error
}

func (m *mockAI) Complete(ctx context.Context, prompt string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

type mockLocker struct {
	acquired int
	released int
	denied   bool
}

func (m *mockLocker) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	m.acquired++
	return !m.denied, nil
}

func (m *mockLocker) ReleaseLock(ctx context.Context, key string) error {
	m.released++
	return nil
}

func fiveQuestionReply() string {
	questions := make(models.QuizList, 5)
	for i := range questions {
		questions[i] = models.QuizQuestion{
			Question:      fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: i % 4,
		}
	}
	payload, _ := json.Marshal(questions)
	return "---SUMMARY---\n- point one\n- point two\n---QUIZ---\n" + string(payload)
}

func newTestService(materials *mockMaterialRepo, streaks *mockStreakRepo, store *mockStore, aiClient *mockAI, locks *mockLocker) *MaterialService {
	svc := NewMaterialService(materials, streaks, store, aiClient, locks, nil, nil, MaterialServiceOptions{})
	svc.SetExtractor(func(data []byte) (string, error) {
		return "extracted lecture text long enough to be considered readable by the pipeline", nil
	})
	svc.SetClock(func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	})
	return svc
}

func TestUploadFirstEverUpload(t *testing.T) {
	materials := &mockMaterialRepo{}
	streaks := &mockStreakRepo{}
	store := &mockStore{}
	aiClient := &mockAI{reply: fiveQuestionReply()}
	locks := &mockLocker{}
	svc := newTestService(materials, streaks, store, aiClient, locks)

	resp, err := svc.Upload(context.Background(), UploadMaterialRequest{
		UserID:   "u1",
		FileName: "notes.pdf",
		Data:     []byte("%PDF-"),
	})
	require.NoError(t, err)

	assert.Equal(t, "mat-1", resp.ID)
	assert.Equal(t, 1, resp.Streak)
	assert.Len(t, resp.Quiz, 5)
	for _, q := range resp.Quiz {
		assert.Len(t, q.Options, 4)
	}
	assert.Contains(t, resp.Summary, "point one")
	assert.Equal(t, "http://store/study-materials/"+store.lastKey, resp.FileURL)

	require.NotNil(t, materials.inserted)
	assert.Equal(t, "u1", materials.inserted.UserID)
	assert.Equal(t, "notes.pdf", materials.inserted.Title)
	assert.Equal(t, []int{1}, streaks.upserted)
	assert.Equal(t, "2026-08-28", streaks.upsertDate)
	assert.Equal(t, 1, locks.acquired)
	assert.Equal(t, 1, locks.released)
}

func TestUploadResponseMatchesPersistedRecord(t *testing.T) {
	materials := &mockMaterialRepo{}
	streaks := &mockStreakRepo{}
	aiClient := &mockAI{reply: fiveQuestionReply()}
	svc := newTestService(materials, streaks, &mockStore{}, aiClient, &mockLocker{})

	resp, err := svc.Upload(context.Background(), UploadMaterialRequest{UserID: "u1", FileName: "notes.pdf", Data: []byte("x")})
	require.NoError(t, err)

	respQuiz, err := json.Marshal(resp.Quiz)
	require.NoError(t, err)
	storedQuiz, err := json.Marshal(materials.inserted.Quiz)
	require.NoError(t, err)
	assert.Equal(t, string(storedQuiz), string(respQuiz))
	assert.Equal(t, materials.inserted.Summary, resp.Summary)
}

func TestUploadSameDayKeepsStreak(t *testing.T) {
	materials := &mockMaterialRepo{}
	streaks := &mockStreakRepo{record: &models.Streak{UserID: "u1", Count: 3, LastUploadDate: "2026-08-28"}}
	svc := newTestService(materials, streaks, &mockStore{}, &mockAI{reply: fiveQuestionReply()}, &mockLocker{})

	resp, err := svc.Upload(context.Background(), UploadMaterialRequest{UserID: "u1", FileName: "notes.pdf", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Streak)
	assert.Equal(t, []int{3}, streaks.upserted)
}

func TestUploadUnreadableDocumentHasNoSideEffects(t *testing.T) {
	materials := &mockMaterialRepo{}
	streaks := &mockStreakRepo{}
	store := &mockStore{}
	aiClient := &mockAI{reply: fiveQuestionReply()}
	svc := newTestService(materials, streaks, store, aiClient, &mockLocker{})
	svc.SetExtractor(func(data []byte) (string, error) {
		return "", appErrors.Clone(appErrors.ErrExtraction, "document is empty or unreadable")
	})

	_, err := svc.Upload(context.Background(), UploadMaterialRequest{UserID: "u1", FileName: "scan.pdf", Data: []byte("x")})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrExtraction.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
	assert.Contains(t, appErr.Message, "unreadable")

	assert.Zero(t, store.uploads)
	assert.Zero(t, aiClient.calls)
	assert.Nil(t, materials.inserted)
	assert.Empty(t, streaks.upserted)
}

func TestUploadMissingInput(t *testing.T) {
	svc := newTestService(&mockMaterialRepo{}, &mockStreakRepo{}, &mockStore{}, &mockAI{}, &mockLocker{})

	_, err := svc.Upload(context.Background(), UploadMaterialRequest{FileName: "notes.pdf", Data: []byte("x")})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidInput.Code, appErrors.FromError(err).Code)

	_, err = svc.Upload(context.Background(), UploadMaterialRequest{UserID: "u1", FileName: "notes.pdf"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidInput.Code, appErrors.FromError(err).Code)
}

func TestUploadStorageFailureAborts(t *testing.T) {
	materials := &mockMaterialRepo{}
	store := &mockStore{err: appErrors.Clone(appErrors.ErrStorage, "failed to store document")}
	aiClient := &mockAI{reply: fiveQuestionReply()}
	svc := newTestService(materials, &mockStreakRepo{}, store, aiClient, &mockLocker{})

	_, err := svc.Upload(context.Background(), UploadMaterialRequest{UserID: "u1", FileName: "notes.pdf", Data: []byte("x")})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStorage.Code, appErrors.FromError(err).Code)
	assert.Nil(t, materials.inserted)
}

func TestUploadProviderFailurePropagates(t *testing.T) {
	materials := &mockMaterialRepo{}
	aiClient := &mockAI{err: appErrors.Clone(appErrors.ErrAIProvider, "ai provider request failed")}
	svc := newTestService(materials, &mockStreakRepo{}, &mockStore{}, aiClient, &mockLocker{})

	_, err := svc.Upload(context.Background(), UploadMaterialRequest{UserID: "u1", FileName: "notes.pdf", Data: []byte("x")})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAIProvider.Code, appErrors.FromError(err).Code)
	assert.Nil(t, materials.inserted)
}

func TestUploadMissingQuizMarkerDegrades(t *testing.T) {
	materials := &mockMaterialRepo{}
	aiClient := &mockAI{reply: "only a summary, no markers"}
	svc := newTestService(materials, &mockStreakRepo{}, &mockStore{}, aiClient, &mockLocker{})

	resp, err := svc.Upload(context.Background(), UploadMaterialRequest{UserID: "u1", FileName: "notes.pdf", Data: []byte("x")})
	require.NoError(t, err)
	assert.Empty(t, resp.Quiz)
	assert.Equal(t, "only a summary, no markers", resp.Summary)
	require.NotNil(t, materials.inserted)
}

func TestUploadMalformedQuizJSONDegrades(t *testing.T) {
	materials := &mockMaterialRepo{}
	aiClient := &mockAI{reply: "---SUMMARY--- s ---QUIZ--- [{not json"}
	svc := newTestService(materials, &mockStreakRepo{}, &mockStore{}, aiClient, &mockLocker{})

	resp, err := svc.Upload(context.Background(), UploadMaterialRequest{UserID: "u1", FileName: "notes.pdf", Data: []byte("x")})
	require.NoError(t, err)
	require.Len(t, resp.Quiz, 1)
	assert.Contains(t, resp.Quiz[0].Question, "failed")
	require.NotNil(t, materials.inserted)
}

func TestUploadPersistenceFailureStillReturnsContent(t *testing.T) {
	materials := &mockMaterialRepo{insertErr: errors.New("connection reset")}
	aiClient := &mockAI{reply: fiveQuestionReply()}
	svc := newTestService(materials, &mockStreakRepo{}, &mockStore{}, aiClient, &mockLocker{})

	resp, err := svc.Upload(context.Background(), UploadMaterialRequest{UserID: "u1", FileName: "notes.pdf", Data: []byte("x")})
	require.NoError(t, err)
	assert.Empty(t, resp.ID)
	assert.Len(t, resp.Quiz, 5)
	assert.NotEmpty(t, resp.Summary)
}

func TestUploadProceedsWhenLockDenied(t *testing.T) {
	streaks := &mockStreakRepo{}
	locks := &mockLocker{denied: true}
	svc := newTestService(&mockMaterialRepo{}, streaks, &mockStore{}, &mockAI{reply: fiveQuestionReply()}, locks)

	resp, err := svc.Upload(context.Background(), UploadMaterialRequest{UserID: "u1", FileName: "notes.pdf", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Streak)
	assert.Equal(t, []int{1}, streaks.upserted)
	assert.GreaterOrEqual(t, locks.acquired, 2)
	assert.Zero(t, locks.released)
}

func TestGenerateFlashcards(t *testing.T) {
	materials := &mockMaterialRepo{rawText: map[string]string{"m1": "stored lecture text"}}
	aiClient := &mockAI{reply: `[{"front": "Term", "back": "Definition"}]`}
	svc := newTestService(materials, &mockStreakRepo{}, &mockStore{}, aiClient, &mockLocker{})

	cards, err := svc.GenerateFlashcards(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Term", cards[0].Front)
}

func TestGenerateFlashcardsMissingMaterial(t *testing.T) {
	svc := newTestService(&mockMaterialRepo{}, &mockStreakRepo{}, &mockStore{}, &mockAI{}, &mockLocker{})

	_, err := svc.GenerateFlashcards(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, 404, appErr.Status)
}

func TestGenerateFlashcardsEmptyStoredText(t *testing.T) {
	materials := &mockMaterialRepo{rawText: map[string]string{"m1": "   "}}
	svc := newTestService(materials, &mockStreakRepo{}, &mockStore{}, &mockAI{}, &mockLocker{})

	_, err := svc.GenerateFlashcards(context.Background(), "m1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGenerateFlashcardsUnusableReply(t *testing.T) {
	materials := &mockMaterialRepo{rawText: map[string]string{"m1": "stored lecture text"}}
	aiClient := &mockAI{reply: "no json at all"}
	svc := newTestService(materials, &mockStreakRepo{}, &mockStore{}, aiClient, &mockLocker{})

	cards, err := svc.GenerateFlashcards(context.Background(), "m1")
	require.NoError(t, err)
	assert.Empty(t, cards)
}
