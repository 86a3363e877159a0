package inference

import (
	"fmt"
	"math"

	"github.com/tobias-fyi/subwise/internal/domain/model"
)

// Classifier kinds
const (
	ClassifierKindMultinomialNB = "multinomial_nb"
	ClassifierKindComplementNB  = "complement_nb"
)

// NaiveBayes is a fitted multinomial or complement naive Bayes model
type NaiveBayes struct {
	kind           string
	classLogPrior  []float64
	featureLogProb [][]float64
	inputDim       int
}

// NewNaiveBayes validates the fitted parameters. featureLogProb has one row per
// class and one column per input feature.
func NewNaiveBayes(kind string, classLogPrior []float64, featureLogProb [][]float64) (*NaiveBayes, error) {
	if kind == "" {
		kind = ClassifierKindMultinomialNB
	}
	if kind != ClassifierKindMultinomialNB && kind != ClassifierKindComplementNB {
		return nil, fmt.Errorf("%w: unknown classifier kind %q", ErrInvalidArtifact, kind)
	}

	numClasses := len(featureLogProb)
	if numClasses == 0 {
		return nil, fmt.Errorf("%w: classifier has no classes", ErrInvalidArtifact)
	}
	if kind == ClassifierKindMultinomialNB && len(classLogPrior) != numClasses {
		return nil, fmt.Errorf("%w: %d class priors for %d classes", ErrDimensionMismatch, len(classLogPrior), numClasses)
	}
	if len(classLogPrior) != 0 && len(classLogPrior) != numClasses {
		return nil, fmt.Errorf("%w: %d class priors for %d classes", ErrDimensionMismatch, len(classLogPrior), numClasses)
	}

	inputDim := len(featureLogProb[0])
	if inputDim == 0 {
		return nil, fmt.Errorf("%w: classifier has no features", ErrInvalidArtifact)
	}
	for c, row := range featureLogProb {
		if len(row) != inputDim {
			return nil, fmt.Errorf("%w: class %d has %d feature weights, want %d", ErrDimensionMismatch, c, len(row), inputDim)
		}
		for _, w := range row {
			if math.IsNaN(w) {
				return nil, fmt.Errorf("%w: class %d has a NaN feature weight", ErrInvalidArtifact, c)
			}
		}
	}
	for _, p := range classLogPrior {
		if math.IsNaN(p) {
			return nil, fmt.Errorf("%w: NaN class prior", ErrInvalidArtifact)
		}
	}

	return &NaiveBayes{
		kind:           kind,
		classLogPrior:  classLogPrior,
		featureLogProb: featureLogProb,
		inputDim:       inputDim,
	}, nil
}

// Kind returns the naive Bayes variant
func (nb *NaiveBayes) Kind() string {
	return nb.kind
}

// InputDim is the number of features the model was fitted on
func (nb *NaiveBayes) InputDim() int {
	return nb.inputDim
}

// NumClasses is the number of classes the model predicts
func (nb *NaiveBayes) NumClasses() int {
	return len(nb.featureLogProb)
}

// JointLogLikelihood returns the unnormalised log posterior of every class
func (nb *NaiveBayes) JointLogLikelihood(v model.SparseVector) ([]float64, error) {
	if v.Dim != nb.inputDim {
		return nil, fmt.Errorf("%w: classifier expects %d features, got %d", ErrDimensionMismatch, nb.inputDim, v.Dim)
	}

	jll := make([]float64, len(nb.featureLogProb))
	for c, row := range nb.featureLogProb {
		var sum float64
		for i, idx := range v.Indices {
			sum += v.Values[i] * row[idx]
		}
		// ComplementNB only adds the prior in the single class case
		if nb.kind == ClassifierKindMultinomialNB || (len(jll) == 1 && len(nb.classLogPrior) == 1) {
			sum += nb.classLogPrior[c]
		}
		jll[c] = sum
	}
	return jll, nil
}

// PredictProba returns a probability per class, in class order, summing to one
func (nb *NaiveBayes) PredictProba(v model.SparseVector) ([]float64, error) {
	jll, err := nb.JointLogLikelihood(v)
	if err != nil {
		return nil, err
	}

	lse := logSumExp(jll)
	proba := make([]float64, len(jll))
	if math.IsInf(lse, -1) {
		for c := range proba {
			proba[c] = 1 / float64(len(proba))
		}
		return proba, nil
	}
	for c, l := range jll {
		proba[c] = math.Exp(l - lse)
	}
	return proba, nil
}

func logSumExp(xs []float64) float64 {
	maxX := math.Inf(-1)
	for _, x := range xs {
		if x > maxX {
			maxX = x
		}
	}
	if math.IsInf(maxX, -1) {
		return maxX
	}

	var sum float64
	for _, x := range xs {
		sum += math.Exp(x - maxX)
	}
	return maxX + math.Log(sum)
}
