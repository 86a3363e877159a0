// Package inference runs the fixed vectorize, select, classify and rank
// pipeline over a validated artifact bundle.
package inference

import (
	"fmt"
	"sort"

	"github.com/tobias-fyi/subwise/internal/domain/entity"
	"github.com/tobias-fyi/subwise/internal/domain/service"
)

type kinded interface {
	Kind() string
}

// Service ranks subreddits for text. It is safe for concurrent use.
type Service struct {
	bundle  *Bundle
	classes []string
}

// NewService creates a Service over bundle
func NewService(bundle *Bundle) *Service {
	return &Service{
		bundle:  bundle,
		classes: bundle.Labels.Classes(),
	}
}

// Rank returns every class paired with its probability, sorted descending.
// Classes with equal probability keep encoder order.
func (s *Service) Rank(text string) ([]entity.Recommendation, error) {
	features := s.bundle.Vectorizer.Transform(text)

	selected, err := s.bundle.Selector.Transform(features)
	if err != nil {
		return nil, fmt.Errorf("failed to select features: %w", err)
	}

	proba, err := s.bundle.Classifier.PredictProba(selected)
	if err != nil {
		return nil, fmt.Errorf("failed to predict probabilities: %w", err)
	}
	if len(proba) != len(s.classes) {
		return nil, fmt.Errorf("%w: %d probabilities for %d classes", ErrDimensionMismatch, len(proba), len(s.classes))
	}

	recs := make([]entity.Recommendation, len(proba))
	for i, p := range proba {
		recs[i] = entity.Recommendation{Subreddit: s.classes[i], Proba: p}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Proba > recs[j].Proba
	})

	return recs, nil
}

// Predict returns the n most probable classes for text
func (s *Service) Predict(text string, n int) ([]entity.Recommendation, error) {
	recs, err := s.Rank(text)
	if err != nil {
		return nil, err
	}
	return Truncate(recs, n), nil
}

// Classes returns the class labels in encoder order
func (s *Service) Classes() []string {
	return append([]string(nil), s.classes...)
}

// Info describes the bundle
func (s *Service) Info() service.ModelInfo {
	info := service.ModelInfo{
		Fingerprint:    s.bundle.Fingerprint,
		VocabularySize: s.bundle.Vectorizer.OutputDim(),
		SelectedDim:    s.bundle.Selector.OutputDim(),
		NumClasses:     s.bundle.Classifier.NumClasses(),
	}
	if k, ok := s.bundle.Vectorizer.(kinded); ok {
		info.VectorizerKind = k.Kind()
	}
	if k, ok := s.bundle.Classifier.(kinded); ok {
		info.ClassifierKind = k.Kind()
	}
	return info
}

// Truncate returns at most the first n recommendations. n <= 0 yields an empty slice.
func Truncate(recs []entity.Recommendation, n int) []entity.Recommendation {
	if n <= 0 {
		return []entity.Recommendation{}
	}
	if n > len(recs) {
		n = len(recs)
	}
	out := make([]entity.Recommendation, n)
	copy(out, recs[:n])
	return out
}
