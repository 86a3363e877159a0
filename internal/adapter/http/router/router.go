package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tobias-fyi/subwise/internal/adapter/http/handler"
	"github.com/tobias-fyi/subwise/internal/adapter/http/middleware"
	"github.com/tobias-fyi/subwise/internal/domain/service"
	"github.com/tobias-fyi/subwise/internal/infrastructure/metrics"
	"github.com/tobias-fyi/subwise/internal/usecase"
)

// Dependencies holds everything the router wires into handlers. DB and Redis
// are only used for health checks and may be nil.
type Dependencies struct {
	Usecase   usecase.RecommendationUsecase
	Predictor service.Predictor
	DB        *gorm.DB
	Redis     *redis.Client
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Logger    *zap.Logger
}

// Setup creates and configures the Gin router
func Setup(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	router := gin.New()

	// Middleware. Logger and Metrics wrap Recovery so recovered panics are
	// still logged and counted as 500s.
	router.Use(middleware.RequestID())
	if deps.Predictor != nil {
		router.Use(middleware.ModelFingerprint(deps.Predictor.Info().Fingerprint))
	}
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics(deps.Metrics))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Health endpoints
	healthHandler := handler.NewHealthHandler(deps.Predictor, deps.DB, deps.Redis)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	recommendationHandler := handler.NewRecommendationHandler(deps.Usecase)

	// Original single-endpoint API
	router.POST("/", recommendationHandler.Recommend)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/recommendations", recommendationHandler.RecommendV1)
		v1.GET("/subreddits", recommendationHandler.Subreddits)
		v1.GET("/model", recommendationHandler.Model)

		predictions := v1.Group("/predictions")
		{
			predictions.GET("", recommendationHandler.ListPredictions)
			predictions.GET("/:id", recommendationHandler.GetPrediction)
		}
	}

	return router
}
