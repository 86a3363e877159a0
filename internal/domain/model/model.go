// Package model declares the capabilities of the four fitted artifacts that make
// up an inference pipeline. Each capability declares the dimensions it consumes
// and produces so a pipeline can be checked before it serves a request.
package model

// Vectorizer maps raw text into a sparse feature vector
type Vectorizer interface {
	Transform(text string) SparseVector
	// OutputDim is the size of the feature space produced by Transform
	OutputDim() int
}

// Selector reduces a feature vector to a subset of its columns
type Selector interface {
	Transform(v SparseVector) (SparseVector, error)
	InputDim() int
	OutputDim() int
}

// Classifier produces a probability distribution over classes
type Classifier interface {
	PredictProba(v SparseVector) ([]float64, error)
	InputDim() int
	NumClasses() int
}

// LabelSource provides the ordered class names of the classifier
type LabelSource interface {
	Classes() []string
}
