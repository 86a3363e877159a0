package service

import (
	"context"

	"github.com/tobias-fyi/subwise/internal/domain/entity"
)

// ModelInfo describes the loaded artifact bundle
type ModelInfo struct {
	Fingerprint    string `json:"fingerprint"`
	VectorizerKind string `json:"vectorizer_kind"`
	ClassifierKind string `json:"classifier_kind"`
	VocabularySize int    `json:"vocabulary_size"`
	SelectedDim    int    `json:"selected_features"`
	NumClasses     int    `json:"num_classes"`
}

// Predictor ranks subreddits for a piece of text
type Predictor interface {
	// Rank returns every known class sorted by probability descending
	Rank(text string) ([]entity.Recommendation, error)

	// Classes returns the class labels in encoder order
	Classes() []string

	// Info describes the underlying model
	Info() ModelInfo
}

// PredictionCache stores full rankings keyed by model and post
type PredictionCache interface {
	Get(ctx context.Context, key string) ([]entity.Recommendation, bool, error)
	Set(ctx context.Context, key string, recs []entity.Recommendation) error
}
