package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unicollab/study-api/internal/models"
	appErrors "github.com/unicollab/study-api/pkg/errors"
)

const leaderboardCacheKey = "leaderboard:top"

type leaderboardRepository interface {
	UpsertScore(ctx context.Context, entry *models.LeaderboardEntry) error
	Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type streakReader interface {
	Find(ctx context.Context, userID string) (*models.Streak, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// LeaderboardService records tournament scores and serves the cached
// top list. Streak days act as a multiplier on submitted scores.
type LeaderboardService struct {
	repo      leaderboardRepository
	streaks   streakReader
	cache     cacheStore
	validator *validator.Validate
	logger    *zap.Logger
	size      int
	cacheTTL  time.Duration
}

// NewLeaderboardService constructs the service.
func NewLeaderboardService(repo leaderboardRepository, streaks streakReader, cache cacheStore, validate *validator.Validate, logger *zap.Logger, size int, cacheTTL time.Duration) *LeaderboardService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if size <= 0 {
		size = 25
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &LeaderboardService{repo: repo, streaks: streaks, cache: cache, validator: validate, logger: logger, size: size, cacheTTL: cacheTTL}
}

// SubmitScoreRequest describes a quiz score submission.
type SubmitScoreRequest struct {
	UserID      string `json:"userId" validate:"required"`
	Score       int    `json:"score" validate:"gte=0"`
	StudentName string `json:"studentName" validate:"required"`
	Department  string `json:"department"`
	University  string `json:"university"`
}

// SubmitScore records score + streak*10 as the user's total points.
func (s *LeaderboardService) SubmitScore(ctx context.Context, req SubmitScoreRequest) (*models.LeaderboardEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score payload")
	}

	streakDays := 1
	if streak, err := s.streaks.Find(ctx, req.UserID); err != nil {
		s.logger.Warn("streak lookup failed, defaulting multiplier", zap.String("user_id", req.UserID), zap.Error(err))
	} else if streak != nil && streak.Count > 0 {
		streakDays = streak.Count
	}

	entry := &models.LeaderboardEntry{
		UserID:      req.UserID,
		StudentName: req.StudentName,
		Score:       req.Score + streakDays*10,
		Department:  req.Department,
		University:  req.University,
		CapturedAt:  time.Now().UTC(),
	}
	if err := s.repo.UpsertScore(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to record score")
	}

	if err := s.cache.Delete(ctx, leaderboardCacheKey); err != nil {
		s.logger.Warn("leaderboard cache invalidation failed", zap.Error(err))
	}
	return entry, nil
}

// Top returns the highest-scoring entries, served from cache when fresh.
func (s *LeaderboardService) Top(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var cached []models.LeaderboardEntry
	if err := s.cache.Get(ctx, leaderboardCacheKey, &cached); err == nil {
		return cached, nil
	}

	entries, err := s.repo.Top(ctx, s.size)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load leaderboard")
	}

	if err := s.cache.Set(ctx, leaderboardCacheKey, entries, s.cacheTTL); err != nil {
		s.logger.Warn("leaderboard cache write failed", zap.Error(err))
	}
	return entries, nil
}
