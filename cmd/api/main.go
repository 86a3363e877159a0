package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tobias-fyi/subwise/internal/adapter/client"
	"github.com/tobias-fyi/subwise/internal/adapter/http/router"
	"github.com/tobias-fyi/subwise/internal/adapter/repository/postgres"
	"github.com/tobias-fyi/subwise/internal/domain/repository"
	"github.com/tobias-fyi/subwise/internal/domain/service"
	"github.com/tobias-fyi/subwise/internal/inference"
	"github.com/tobias-fyi/subwise/internal/infrastructure/artifact"
	"github.com/tobias-fyi/subwise/internal/infrastructure/cache"
	"github.com/tobias-fyi/subwise/internal/infrastructure/config"
	"github.com/tobias-fyi/subwise/internal/infrastructure/database"
	"github.com/tobias-fyi/subwise/internal/infrastructure/logger"
	"github.com/tobias-fyi/subwise/internal/infrastructure/metrics"
	"github.com/tobias-fyi/subwise/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Load model artifacts
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancelLoad()

	fetcher := client.NewArtifactClient(cfg.Artifacts.FetchTimeout, cfg.Artifacts.FetchRetries, log)
	bundle, err := artifact.NewLoader(afero.NewOsFs(), fetcher, log).Load(loadCtx, artifact.Sources{
		LabelEncoder: cfg.Artifacts.LabelEncoder,
		Selector:     cfg.Artifacts.Selector,
		Vectorizer:   cfg.Artifacts.Vectorizer,
		Classifier:   cfg.Artifacts.Classifier,
	})
	if err != nil {
		log.Error("Failed to load model artifacts", zap.Error(err))
		return fmt.Errorf("failed to load model artifacts: %w", err)
	}
	predictor := inference.NewService(bundle)
	info := predictor.Info()
	log.Info("Model loaded",
		zap.String("fingerprint", info.Fingerprint),
		zap.Int("classes", info.NumClasses),
		zap.Int("vocabulary", info.VocabularySize),
		zap.Int("selected_features", info.SelectedDim),
	)

	// Initialize prediction cache
	predictionCache, redisClient := newCache(cfg, log)

	// Initialize database (optional)
	var db *gorm.DB
	var history repository.PredictionRepository
	if cfg.Database.Enabled {
		db, err = database.NewPostgresDB(&cfg.Database)
		if err != nil {
			log.Error("Failed to connect to database", zap.Error(err))
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		log.Info("Connected to database")

		if err := database.AutoMigrate(db); err != nil {
			log.Error("Failed to run migrations", zap.Error(err))
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("Database migrations completed")
		history = postgres.NewPredictionRepository(db)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	uc := usecase.NewRecommendationUsecase(predictor, usecase.Options{
		Cache:    predictionCache,
		History:  history,
		Metrics:  m,
		Logger:   log,
		DefaultN: cfg.Inference.DefaultN,
	})

	// Setup router
	r := router.Setup(router.Dependencies{
		Usecase:   uc,
		Predictor: predictor,
		DB:        db,
		Redis:     redisClient,
		Metrics:   m,
		Gatherer:  prometheus.DefaultGatherer,
		Logger:    log,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Starting server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close database connection
	if db != nil {
		if sqlDB, err := db.DB(); err == nil && sqlDB != nil {
			_ = sqlDB.Close()
		}
	}

	// Close Redis connection
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("Server exited")
	return nil
}

// newCache builds the configured prediction cache. A redis backend that cannot
// be reached falls back to the in-memory cache.
func newCache(cfg *config.Config, log *zap.Logger) (service.PredictionCache, *redis.Client) {
	switch cfg.Cache.Backend {
	case config.CacheBackendNone:
		log.Info("Prediction cache disabled")
		return nil, nil
	case config.CacheBackendRedis:
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err == nil {
			log.Info("Connected to Redis")
			return cache.NewRedisCache(redisClient, cfg.Cache.TTL), redisClient
		}
		log.Warn("Failed to connect to Redis, falling back to memory cache", zap.Error(err))
	}

	memory, err := cache.NewMemoryCache(cfg.Cache.Size)
	if err != nil {
		log.Warn("Failed to create memory cache, continuing without cache", zap.Error(err))
		return nil, nil
	}
	return memory, nil
}
