package inference

import (
	"fmt"

	"github.com/tobias-fyi/subwise/internal/domain/model"
)

// Bundle is the set of fitted artifacts an inference pipeline runs over.
// A Bundle is never mutated after NewBundle returns.
type Bundle struct {
	Labels      model.LabelSource
	Vectorizer  model.Vectorizer
	Selector    model.Selector
	Classifier  model.Classifier
	Fingerprint string
}

// NewBundle checks that the artifact dimensions chain and returns the bundle
func NewBundle(labels model.LabelSource, vec model.Vectorizer, sel model.Selector, clf model.Classifier, fingerprint string) (*Bundle, error) {
	if labels == nil || vec == nil || sel == nil || clf == nil {
		return nil, fmt.Errorf("%w: bundle requires all four artifacts", ErrInvalidArtifact)
	}

	if vec.OutputDim() != sel.InputDim() {
		return nil, fmt.Errorf("%w: vectorizer produces %d features, selector expects %d",
			ErrDimensionMismatch, vec.OutputDim(), sel.InputDim())
	}
	if sel.OutputDim() != clf.InputDim() {
		return nil, fmt.Errorf("%w: selector produces %d features, classifier expects %d",
			ErrDimensionMismatch, sel.OutputDim(), clf.InputDim())
	}
	if n := len(labels.Classes()); n != clf.NumClasses() {
		return nil, fmt.Errorf("%w: label encoder has %d classes, classifier predicts %d",
			ErrDimensionMismatch, n, clf.NumClasses())
	}

	return &Bundle{
		Labels:      labels,
		Vectorizer:  vec,
		Selector:    sel,
		Classifier:  clf,
		Fingerprint: fingerprint,
	}, nil
}
