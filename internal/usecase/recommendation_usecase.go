package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tobias-fyi/subwise/internal/domain/entity"
	"github.com/tobias-fyi/subwise/internal/domain/repository"
	"github.com/tobias-fyi/subwise/internal/domain/service"
	"github.com/tobias-fyi/subwise/internal/inference"
	"github.com/tobias-fyi/subwise/internal/infrastructure/cache"
	"github.com/tobias-fyi/subwise/internal/infrastructure/metrics"
)

// Error definitions for recommendation usecase
var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrHistoryDisabled    = errors.New("prediction history is disabled")
	ErrPredictionNotFound = errors.New("prediction not found")
)

// DefaultN is used when a request does not say how many subreddits it wants
const DefaultN = 5

// History page bounds
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// RecommendInput represents a recommendation request body
type RecommendInput struct {
	Post      *string `json:"post" binding:"required"`
	N         *int    `json:"n"`
	RequestID string  `json:"-"`
}

// RecommendOutput represents the result of a recommendation
type RecommendOutput struct {
	Recommendations  []entity.Recommendation `json:"recommendations"`
	N                int                     `json:"n"`
	ModelFingerprint string                  `json:"model_fingerprint"`
	Cached           bool                    `json:"cached"`
}

// SubredditsOutput lists the subreddits the model knows
type SubredditsOutput struct {
	Subreddits []string `json:"subreddits"`
	Count      int      `json:"count"`
}

// PredictionListOutput represents a page of prediction history
type PredictionListOutput struct {
	Predictions []*entity.PredictionRecord `json:"predictions"`
	Total       int64                      `json:"total"`
	Limit       int                        `json:"limit"`
	Offset      int                        `json:"offset"`
	HasMore     bool                       `json:"has_more"`
}

// RecommendationUsecase defines the interface for recommendation business logic
type RecommendationUsecase interface {
	Recommend(ctx context.Context, input *RecommendInput) (*RecommendOutput, error)
	Subreddits() *SubredditsOutput
	ModelInfo() service.ModelInfo
	History(ctx context.Context, limit, offset int) (*PredictionListOutput, error)
	HistoryByID(ctx context.Context, id uuid.UUID) (*entity.PredictionRecord, error)
}

// Options holds the optional collaborators of the usecase
type Options struct {
	Cache    service.PredictionCache
	History  repository.PredictionRepository
	Metrics  *metrics.Metrics
	Logger   *zap.Logger

	// DefaultN applies when a request omits n. Zero selects DefaultN.
	DefaultN int
}

type recommendationUsecase struct {
	predictor service.Predictor
	cache     service.PredictionCache
	history   repository.PredictionRepository
	metrics   *metrics.Metrics
	logger    *zap.Logger
	defaultN  int
}

// NewRecommendationUsecase creates a new recommendation usecase
func NewRecommendationUsecase(predictor service.Predictor, opts Options) RecommendationUsecase {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	defaultN := opts.DefaultN
	if defaultN <= 0 {
		defaultN = DefaultN
	}
	return &recommendationUsecase{
		predictor: predictor,
		cache:     opts.Cache,
		history:   opts.History,
		metrics:   opts.Metrics,
		logger:    logger,
		defaultN:  defaultN,
	}
}

func (u *recommendationUsecase) Recommend(ctx context.Context, input *RecommendInput) (*RecommendOutput, error) {
	if input == nil || input.Post == nil {
		return nil, fmt.Errorf("%w: post is required", ErrInvalidRequest)
	}
	n := u.defaultN
	if input.N != nil {
		n = *input.N
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: n must not be negative", ErrInvalidRequest)
	}

	start := time.Now()
	post := *input.Post
	info := u.predictor.Info()
	key := cache.Key(info.Fingerprint, post)

	ranked, cached := u.cached(ctx, key)
	if !cached {
		inferStart := time.Now()
		var err error
		ranked, err = u.predictor.Rank(post)
		if err != nil {
			return nil, fmt.Errorf("rank post: %w", err)
		}
		u.metrics.ObserveInference(time.Since(inferStart))
		u.store(ctx, key, ranked)
	}

	recs := inference.Truncate(ranked, n)
	top := ""
	if len(recs) > 0 {
		top = recs[0].Subreddit
	}
	u.metrics.ObservePrediction(cached, top)

	if u.history != nil {
		record := entity.NewPredictionRecord(input.RequestID, cache.PostHash(post), len(post), n, recs)
		record.SetResult(info.Fingerprint, cached, time.Since(start).Milliseconds())
		if err := u.history.Create(ctx, record); err != nil {
			u.logger.Warn("failed to record prediction",
				zap.String("request_id", input.RequestID),
				zap.Error(err),
			)
		}
	}

	return &RecommendOutput{
		Recommendations:  recs,
		N:                n,
		ModelFingerprint: info.Fingerprint,
		Cached:           cached,
	}, nil
}

func (u *recommendationUsecase) cached(ctx context.Context, key string) ([]entity.Recommendation, bool) {
	if u.cache == nil {
		return nil, false
	}
	recs, ok, err := u.cache.Get(ctx, key)
	if err != nil {
		u.logger.Warn("prediction cache read failed", zap.Error(err))
		return nil, false
	}
	return recs, ok
}

func (u *recommendationUsecase) store(ctx context.Context, key string, recs []entity.Recommendation) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Set(ctx, key, recs); err != nil {
		u.logger.Warn("prediction cache write failed", zap.Error(err))
	}
}

func (u *recommendationUsecase) Subreddits() *SubredditsOutput {
	classes := u.predictor.Classes()
	return &SubredditsOutput{
		Subreddits: classes,
		Count:      len(classes),
	}
}

func (u *recommendationUsecase) ModelInfo() service.ModelInfo {
	return u.predictor.Info()
}

func (u *recommendationUsecase) History(ctx context.Context, limit, offset int) (*PredictionListOutput, error) {
	if u.history == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	records, total, err := u.history.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*entity.PredictionRecord{}
	}

	return &PredictionListOutput{
		Predictions: records,
		Total:       total,
		Limit:       limit,
		Offset:      offset,
		HasMore:     int64(offset+limit) < total,
	}, nil
}

func (u *recommendationUsecase) HistoryByID(ctx context.Context, id uuid.UUID) (*entity.PredictionRecord, error) {
	if u.history == nil {
		return nil, ErrHistoryDisabled
	}
	record, err := u.history.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrPredictionNotFound
	}
	return record, nil
}
