package model

import (
	"fmt"
	"sort"
)

// SparseVector is a single row in a sparse feature space. Indices are strictly
// increasing and Values is parallel to Indices.
type SparseVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// NewSparseVector builds a vector from an index to value map. Zero entries are dropped.
func NewSparseVector(dim int, entries map[int]float64) SparseVector {
	v := SparseVector{Dim: dim}
	if len(entries) == 0 {
		return v
	}

	v.Indices = make([]int, 0, len(entries))
	for idx, val := range entries {
		if val != 0 {
			v.Indices = append(v.Indices, idx)
		}
	}
	sort.Ints(v.Indices)

	v.Values = make([]float64, len(v.Indices))
	for i, idx := range v.Indices {
		v.Values[i] = entries[idx]
	}
	return v
}

// NNZ returns the number of stored entries
func (v SparseVector) NNZ() int {
	return len(v.Indices)
}

// At returns the value at column idx
func (v SparseVector) At(idx int) float64 {
	i := sort.SearchInts(v.Indices, idx)
	if i < len(v.Indices) && v.Indices[i] == idx {
		return v.Values[i]
	}
	return 0
}

// Validate checks that indices are in range and strictly increasing
func (v SparseVector) Validate() error {
	if len(v.Indices) != len(v.Values) {
		return fmt.Errorf("sparse vector has %d indices but %d values", len(v.Indices), len(v.Values))
	}
	prev := -1
	for _, idx := range v.Indices {
		if idx <= prev || idx >= v.Dim {
			return fmt.Errorf("sparse vector index %d out of order or outside dimension %d", idx, v.Dim)
		}
		prev = idx
	}
	return nil
}
