package inference

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	fixtureClasses    = []string{"Cooking", "PLC", "Rowing"}
	fixtureVocabulary = map[string]int{
		"boat": 0, "love": 1, "oven": 2, "plc": 3, "river": 4,
		"rowing": 5, "ladder": 6, "recipe": 7, "erg": 8,
	}
	// "love" is dropped by the selector
	fixtureSupport = []int{0, 2, 3, 4, 5, 6, 7, 8}
	uniformPrior   = math.Log(1.0 / 3.0)
)

func fixturePrior() []float64 {
	return []float64{uniformPrior, uniformPrior, uniformPrior}
}

// columns: boat oven plc river rowing ladder recipe erg
func fixtureFeatureLogProb() [][]float64 {
	return [][]float64{
		{-3.0, -1.0, -3.0, -3.0, -3.0, -3.0, -1.0, -3.0},
		{-3.0, -3.0, -1.0, -3.0, -3.0, -1.0, -3.0, -3.0},
		{-1.5, -3.0, -3.0, -1.2, -1.0, -3.0, -3.0, -1.5},
	}
}

func newFixtureBundle(t *testing.T) *Bundle {
	t.Helper()

	labels, err := NewLabelEncoder(fixtureClasses)
	require.NoError(t, err)

	vec, err := NewVectorizer(VectorizerConfig{
		Kind:       VectorizerKindCount,
		Vocabulary: fixtureVocabulary,
		Lowercase:  true,
	})
	require.NoError(t, err)

	sel, err := NewSupportSelector(len(fixtureVocabulary), fixtureSupport)
	require.NoError(t, err)

	clf, err := NewNaiveBayes(ClassifierKindMultinomialNB, fixturePrior(), fixtureFeatureLogProb())
	require.NoError(t, err)

	bundle, err := NewBundle(labels, vec, sel, clf, "fixture")
	require.NoError(t, err)
	return bundle
}
