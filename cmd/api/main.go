package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/unicollab/study-api/api/swagger"
	"github.com/unicollab/study-api/internal/ai"
	"github.com/unicollab/study-api/internal/handler"
	"github.com/unicollab/study-api/internal/middleware"
	"github.com/unicollab/study-api/internal/repository"
	"github.com/unicollab/study-api/internal/service"
	"github.com/unicollab/study-api/internal/storage"
	"github.com/unicollab/study-api/pkg/cache"
	"github.com/unicollab/study-api/pkg/config"
	"github.com/unicollab/study-api/pkg/database"
	"github.com/unicollab/study-api/pkg/logger"
	corsmiddleware "github.com/unicollab/study-api/pkg/middleware/cors"
	reqidmiddleware "github.com/unicollab/study-api/pkg/middleware/requestid"
)

// @title UniCollab Study API
// @version 1.0.0
// @description Document-to-study-artifact pipeline: upload lecture PDFs, get summaries, quizzes and flashcards
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	// Redis is an optimization layer: without it the streak update falls
	// back to last-write-wins and the leaderboard skips its cache.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, running without cache and streak locks", "error", err)
		redisClient = nil
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		logr.Sugar().Fatalw("failed to init object store", "error", err)
	}
	bucketCtx, cancelBucket := context.WithTimeout(context.Background(), 15*time.Second)
	if err := store.EnsureBucket(bucketCtx); err != nil {
		cancelBucket()
		logr.Sugar().Fatalw("failed to ensure storage bucket", "error", err)
	}
	cancelBucket()

	aiClient := ai.NewClient(cfg.AI, logr)

	materialRepo := repository.NewMaterialRepository(db)
	streakRepo := repository.NewStreakRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	materialSvc := service.NewMaterialService(materialRepo, streakRepo, store, aiClient, cacheRepo, validate, logr, service.MaterialServiceOptions{
		LockTTL:     cfg.Streak.LockTTL,
		LockRetries: cfg.Streak.LockRetries,
		Metrics:     metricsSvc,
	})
	leaderboardSvc := service.NewLeaderboardService(leaderboardRepo, streakRepo, cacheRepo, validate, logr, cfg.Leaderboard.Size, cfg.Leaderboard.CacheTTL)
	messageSvc := service.NewMessageService(messageRepo, cfg.Chat.BannedWords, validate, logr)

	materialHandler := handler.NewMaterialHandler(materialSvc, cfg.Upload.MaxFileSizeBytes)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardSvc)
	messageHandler := handler.NewMessageHandler(messageSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.MaxMultipartMemory = cfg.Upload.MaxFileSizeBytes

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/materials/upload", materialHandler.Upload)
		api.POST("/materials/flashcards", materialHandler.Flashcards)
		api.GET("/materials/user/:userId", materialHandler.ListByUser)
		api.DELETE("/materials/:id", materialHandler.Delete)

		api.POST("/leaderboard/score", leaderboardHandler.SubmitScore)
		api.GET("/leaderboard", leaderboardHandler.Top)

		api.POST("/messages", messageHandler.Send)
		api.GET("/messages/history/:userA/:userB", messageHandler.PrivateHistory)
		api.GET("/messages/group/:groupId", messageHandler.GroupHistory)
	}

	// The write timeout must cover the whole upload pipeline, AI call
	// included, so it is sized from the upload budget instead of the
	// usual few seconds.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  cfg.Upload.Timeout,
		WriteTimeout: cfg.Upload.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	cacheRepo.Close()
	logr.Sugar().Infow("server stopped")
}
