package inference

import (
	"fmt"

	"github.com/tobias-fyi/subwise/internal/domain/model"
)

// SupportSelector keeps a fixed subset of feature columns, as chosen by a
// univariate filter such as chi2 at fit time. Kept columns retain their
// original order and are renumbered from zero.
type SupportSelector struct {
	inputDim int
	support  []int
	remap    []int
}

// NewSupportSelector creates a selector over nFeaturesIn columns keeping the
// strictly increasing support indices.
func NewSupportSelector(nFeaturesIn int, support []int) (*SupportSelector, error) {
	if nFeaturesIn <= 0 {
		return nil, fmt.Errorf("%w: selector input dimension must be positive", ErrInvalidArtifact)
	}
	if len(support) == 0 {
		return nil, fmt.Errorf("%w: selector keeps no features", ErrInvalidArtifact)
	}

	remap := make([]int, nFeaturesIn)
	for i := range remap {
		remap[i] = -1
	}
	prev := -1
	for pos, idx := range support {
		if idx <= prev || idx >= nFeaturesIn {
			return nil, fmt.Errorf("%w: support index %d out of order or outside %d features", ErrInvalidArtifact, idx, nFeaturesIn)
		}
		remap[idx] = pos
		prev = idx
	}

	return &SupportSelector{
		inputDim: nFeaturesIn,
		support:  append([]int(nil), support...),
		remap:    remap,
	}, nil
}

// InputDim is the size of the full feature space
func (s *SupportSelector) InputDim() int {
	return s.inputDim
}

// OutputDim is the number of kept features
func (s *SupportSelector) OutputDim() int {
	return len(s.support)
}

// Transform projects v onto the kept columns
func (s *SupportSelector) Transform(v model.SparseVector) (model.SparseVector, error) {
	if v.Dim != s.inputDim {
		return model.SparseVector{}, fmt.Errorf("%w: selector expects %d features, got %d", ErrDimensionMismatch, s.inputDim, v.Dim)
	}

	out := model.SparseVector{Dim: len(s.support)}
	for i, idx := range v.Indices {
		if pos := s.remap[idx]; pos >= 0 {
			out.Indices = append(out.Indices, pos)
			out.Values = append(out.Values, v.Values[i])
		}
	}
	return out, nil
}
