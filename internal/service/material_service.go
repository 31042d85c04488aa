package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/unicollab/study-api/internal/ai"
	"github.com/unicollab/study-api/internal/extract"
	"github.com/unicollab/study-api/internal/models"
	"github.com/unicollab/study-api/internal/storage"
	appErrors "github.com/unicollab/study-api/pkg/errors"
)

type materialRepository interface {
	Insert(ctx context.Context, material *models.Material) error
	FindRawText(ctx context.Context, id string) (string, error)
	ListByUser(ctx context.Context, userID string) ([]models.Material, error)
	Delete(ctx context.Context, id string) error
}

type streakRepository interface {
	Find(ctx context.Context, userID string) (*models.Streak, error)
	Upsert(ctx context.Context, userID string, count int, date string) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type completionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type streakLocker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

type stageObserver interface {
	ObservePipelineStage(stage string, duration time.Duration)
}

// MaterialService coordinates the upload pipeline: validate, extract,
// store-and-streak, enrich, persist, compose. It also serves flashcard
// generation and the plain material CRUD around the pipeline.
type MaterialService struct {
	materials materialRepository
	streaks   streakRepository
	store     objectStore
	ai        completionClient
	locks     streakLocker
	metrics   stageObserver
	validator *validator.Validate
	logger    *zap.Logger

	lockTTL     time.Duration
	lockRetries int
	extract     func([]byte) (string, error)
	now         func() time.Time
}

// MaterialServiceOptions tunes coordinator behaviour.
type MaterialServiceOptions struct {
	LockTTL     time.Duration
	LockRetries int
	Metrics     stageObserver
}

// NewMaterialService constructs the coordinator.
func NewMaterialService(
	materials materialRepository,
	streaks streakRepository,
	store objectStore,
	completions completionClient,
	locks streakLocker,
	validate *validator.Validate,
	logger *zap.Logger,
	opts MaterialServiceOptions,
) *MaterialService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 10 * time.Second
	}
	if opts.LockRetries <= 0 {
		opts.LockRetries = 3
	}
	return &MaterialService{
		materials:   materials,
		streaks:     streaks,
		store:       store,
		ai:          completions,
		locks:       locks,
		metrics:     opts.Metrics,
		validator:   validate,
		logger:      logger,
		lockTTL:     opts.LockTTL,
		lockRetries: opts.LockRetries,
		extract:     extract.Text,
		now:         time.Now,
	}
}

// UploadMaterialRequest carries one pipeline run's transient input.
type UploadMaterialRequest struct {
	UserID   string `validate:"required"`
	FileName string `validate:"required"`
	Data     []byte `validate:"required"`
}

// UploadMaterialResponse is the composed pipeline output. An empty ID with
// otherwise populated content signals that final persistence failed after
// enrichment succeeded.
type UploadMaterialResponse struct {
	ID      string          `json:"id"`
	Summary string          `json:"summary"`
	Quiz    models.QuizList `json:"quiz"`
	Streak  int             `json:"streak"`
	FileURL string          `json:"fileUrl"`
}

// Upload runs the document-to-study-artifact pipeline for one request.
//
// Stage order: validation and extraction run before any side effect, so
// their failures abort cleanly with no writes. The storage upload and the
// streak update have no data dependency and run concurrently. Enrichment
// needs the extracted text; provider failures propagate, parse failures
// degrade the content without failing the run. A persistence failure after
// successful enrichment is logged and the generated content is still
// returned with the record id unset.
func (s *MaterialService) Upload(ctx context.Context, req UploadMaterialRequest) (*UploadMaterialResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, "userId and document file are required")
	}

	text, err := s.timedStage("extract", func() (string, error) {
		return s.extract(req.Data)
	})
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	key := storage.ObjectKey(req.UserID, req.FileName, now)

	var fileURL string
	var streak int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url, err := s.timedStage("store", func() (string, error) {
			return s.store.Upload(gctx, key, req.Data, "application/pdf")
		})
		if err != nil {
			return err
		}
		fileURL = url
		return nil
	})
	g.Go(func() error {
		start := s.now()
		streak = s.applyStreak(gctx, req.UserID, now)
		s.observeStage("streak", s.now().Sub(start))
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reply, err := s.timedStage("enrich", func() (string, error) {
		return s.ai.Complete(ctx, ai.StudyPrompt(text))
	})
	if err != nil {
		return nil, err
	}

	parsed := ai.ParseStudyReply(reply)
	if parsed.Outcome == ai.OutcomeFailed {
		s.logger.Warn("quiz segment unparseable, degrading to placeholder",
			zap.String("user_id", req.UserID),
			zap.Int("reply_chars", len(reply)),
		)
	}

	material := &models.Material{
		UserID:    req.UserID,
		FileURL:   fileURL,
		Title:     req.FileName,
		Summary:   parsed.Summary,
		Quiz:      parsed.Quiz,
		RawText:   text,
		CreatedAt: now,
	}
	persistStart := s.now()
	if err := s.materials.Insert(ctx, material); err != nil {
		// Known loose edge: the content was already generated, so it is
		// returned to the caller with the id unset instead of being lost.
		s.logger.Error("material persistence failed after enrichment, returning unpersisted content",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		material.ID = ""
	}
	s.observeStage("persist", s.now().Sub(persistStart))

	return &UploadMaterialResponse{
		ID:      material.ID,
		Summary: parsed.Summary,
		Quiz:    parsed.Quiz,
		Streak:  streak,
		FileURL: fileURL,
	}, nil
}

// applyStreak serializes the per-user read-compute-upsert behind a Redis
// advisory lock. When the lock cannot be acquired within the retry budget
// the write proceeds last-write-wins, which is the documented minimum
// guarantee. Streak write failures never abort the pipeline.
func (s *MaterialService) applyStreak(ctx context.Context, userID string, now time.Time) int {
	lockKey := "streak:lock:" + userID
	locked := false
	if s.locks != nil {
		for attempt := 0; attempt < s.lockRetries; attempt++ {
			ok, err := s.locks.AcquireLock(ctx, lockKey, s.lockTTL)
			if err != nil {
				s.logger.Warn("streak lock unavailable", zap.String("user_id", userID), zap.Error(err))
				break
			}
			if ok {
				locked = true
				break
			}
			select {
			case <-ctx.Done():
				return 1
			case <-time.After(50 * time.Millisecond):
			}
		}
		if locked {
			defer func() {
				if err := s.locks.ReleaseLock(ctx, lockKey); err != nil {
					s.logger.Warn("streak unlock failed", zap.String("user_id", userID), zap.Error(err))
				}
			}()
		} else {
			s.logger.Warn("proceeding without streak lock, last write wins", zap.String("user_id", userID))
		}
	}

	prev, err := s.streaks.Find(ctx, userID)
	if err != nil {
		s.logger.Warn("streak read failed, treating as first upload", zap.String("user_id", userID), zap.Error(err))
		prev = nil
	}

	count := NextStreak(prev, now)
	if err := s.streaks.Upsert(ctx, userID, count, now.UTC().Format(DateLayout)); err != nil {
		s.logger.Warn("streak upsert failed", zap.String("user_id", userID), zap.Error(err))
	}
	return count
}

// GenerateFlashcards builds front/back cards from a material's stored raw
// text. Materials without stored text are a 404; provider failures
// propagate; malformed card output degrades to an empty list.
func (s *MaterialService) GenerateFlashcards(ctx context.Context, materialID string) ([]models.Flashcard, error) {
	if strings.TrimSpace(materialID) == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "materialId is required")
	}

	raw, err := s.materials.FindRawText(ctx, materialID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "material text not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load material text")
	}
	if strings.TrimSpace(raw) == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "material text not found")
	}

	reply, err := s.ai.Complete(ctx, ai.FlashcardPrompt(raw))
	if err != nil {
		return nil, err
	}

	cards := ai.ParseFlashcardReply(reply)
	if len(cards) == 0 {
		s.logger.Warn("flashcard reply unusable, returning empty list", zap.String("material_id", materialID))
	}
	return cards, nil
}

// ListByUser returns a user's materials, newest first.
func (s *MaterialService) ListByUser(ctx context.Context, userID string) ([]models.Material, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "userId is required")
	}
	materials, err := s.materials.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to list materials")
	}
	return materials, nil
}

// Delete removes a material record (owner-initiated).
func (s *MaterialService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return appErrors.Clone(appErrors.ErrInvalidInput, "material id is required")
	}
	if err := s.materials.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to delete material")
	}
	return nil
}

func (s *MaterialService) timedStage(stage string, fn func() (string, error)) (string, error) {
	start := s.now()
	out, err := fn()
	s.observeStage(stage, s.now().Sub(start))
	if err != nil {
		return "", err
	}
	return out, nil
}

func (s *MaterialService) observeStage(stage string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.ObservePipelineStage(stage, d)
	}
}

// SetExtractor overrides the text extractor. Intended for tests.
func (s *MaterialService) SetExtractor(fn func([]byte) (string, error)) {
	if fn != nil {
		s.extract = fn
	}
}

// SetClock overrides the time source. Intended for tests.
func (s *MaterialService) SetClock(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}
