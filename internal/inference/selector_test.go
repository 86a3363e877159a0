package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobias-fyi/subwise/internal/domain/model"
)

func TestNewSupportSelector(t *testing.T) {
	tests := []struct {
		name      string
		nIn       int
		support   []int
		expectErr bool
	}{
		{name: "valid", nIn: 5, support: []int{0, 2, 4}},
		{name: "no input features", nIn: 0, support: []int{0}, expectErr: true},
		{name: "empty support", nIn: 5, support: nil, expectErr: true},
		{name: "index outside input", nIn: 3, support: []int{0, 3}, expectErr: true},
		{name: "unsorted support", nIn: 5, support: []int{2, 1}, expectErr: true},
		{name: "repeated support", nIn: 5, support: []int{1, 1}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := NewSupportSelector(tt.nIn, tt.support)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrInvalidArtifact)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.nIn, sel.InputDim())
			assert.Equal(t, len(tt.support), sel.OutputDim())
		})
	}
}

func TestSupportSelector_Transform(t *testing.T) {
	sel, err := NewSupportSelector(6, []int{1, 3, 4})
	require.NoError(t, err)

	t.Run("keeps supported columns and renumbers them", func(t *testing.T) {
		in := model.NewSparseVector(6, map[int]float64{0: 9, 1: 2, 4: 5, 5: 7})

		out, err := sel.Transform(in)

		require.NoError(t, err)
		assert.Equal(t, 3, out.Dim)
		assert.Equal(t, []int{0, 2}, out.Indices)
		assert.Equal(t, []float64{2, 5}, out.Values)
		assert.NoError(t, out.Validate())
	})

	t.Run("empty input", func(t *testing.T) {
		out, err := sel.Transform(model.SparseVector{Dim: 6})

		require.NoError(t, err)
		assert.Equal(t, 0, out.NNZ())
		assert.Equal(t, 3, out.Dim)
	})

	t.Run("wrong input dimension", func(t *testing.T) {
		_, err := sel.Transform(model.SparseVector{Dim: 5})

		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})
}
