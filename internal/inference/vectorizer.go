package inference

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/tobias-fyi/subwise/internal/domain/model"
)

// DefaultTokenPattern matches runs of two or more word characters, the same
// tokens scikit-learn's default pattern produces.
const DefaultTokenPattern = `[\p{L}\p{N}_]{2,}`

// pythonDefaultTokenPattern is how the default pattern is exported from Python
const pythonDefaultTokenPattern = `(?u)\b\w\w+\b`

// Vectorizer kinds
const (
	VectorizerKindCount = "count"
	VectorizerKindTFIDF = "tfidf"
)

// VectorizerConfig is the fitted state of a bag-of-words vectorizer
type VectorizerConfig struct {
	Kind         string
	Vocabulary   map[string]int
	Lowercase    bool
	TokenPattern string
	NgramMin     int
	NgramMax     int
	StopWords    []string
	Binary       bool

	// TF-IDF only
	IDF         []float64
	Norm        string
	SublinearTF bool
}

// TextVectorizer turns text into term counts or tf-idf weights over a fixed vocabulary
type TextVectorizer struct {
	kind        string
	vocabulary  map[string]int
	lowercase   bool
	token       *regexp.Regexp
	ngramMin    int
	ngramMax    int
	stopWords   map[string]struct{}
	binary      bool
	idf         []float64
	norm        string
	sublinearTF bool
}

// NewVectorizer validates cfg and builds a TextVectorizer
func NewVectorizer(cfg VectorizerConfig) (*TextVectorizer, error) {
	kind := cfg.Kind
	if kind == "" {
		kind = VectorizerKindCount
	}
	if kind != VectorizerKindCount && kind != VectorizerKindTFIDF {
		return nil, fmt.Errorf("%w: unknown vectorizer kind %q", ErrInvalidArtifact, kind)
	}

	dim := len(cfg.Vocabulary)
	if dim == 0 {
		return nil, fmt.Errorf("%w: vectorizer vocabulary is empty", ErrInvalidArtifact)
	}
	taken := make([]bool, dim)
	for term, idx := range cfg.Vocabulary {
		if idx < 0 || idx >= dim || taken[idx] {
			return nil, fmt.Errorf("%w: vocabulary index %d for %q is out of range or repeated", ErrInvalidArtifact, idx, term)
		}
		taken[idx] = true
	}

	ngramMin, ngramMax := cfg.NgramMin, cfg.NgramMax
	if ngramMin == 0 && ngramMax == 0 {
		ngramMin, ngramMax = 1, 1
	}
	if ngramMin < 1 || ngramMax < ngramMin {
		return nil, fmt.Errorf("%w: invalid ngram range (%d, %d)", ErrInvalidArtifact, ngramMin, ngramMax)
	}

	token, err := compileTokenPattern(cfg.TokenPattern)
	if err != nil {
		return nil, err
	}

	v := &TextVectorizer{
		kind:       kind,
		vocabulary: cfg.Vocabulary,
		lowercase:  cfg.Lowercase,
		token:      token,
		ngramMin:   ngramMin,
		ngramMax:   ngramMax,
		binary:     cfg.Binary,
	}

	if len(cfg.StopWords) > 0 {
		v.stopWords = make(map[string]struct{}, len(cfg.StopWords))
		for _, w := range cfg.StopWords {
			v.stopWords[w] = struct{}{}
		}
	}

	if kind == VectorizerKindTFIDF {
		if cfg.IDF != nil && len(cfg.IDF) != dim {
			return nil, fmt.Errorf("%w: idf has %d weights, vocabulary has %d terms", ErrDimensionMismatch, len(cfg.IDF), dim)
		}
		switch cfg.Norm {
		case "", "l1", "l2":
		default:
			return nil, fmt.Errorf("%w: unknown norm %q", ErrInvalidArtifact, cfg.Norm)
		}
		v.idf = cfg.IDF
		v.norm = cfg.Norm
		v.sublinearTF = cfg.SublinearTF
	}

	return v, nil
}

func compileTokenPattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" || pattern == pythonDefaultTokenPattern {
		pattern = DefaultTokenPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: token pattern: %v", ErrInvalidArtifact, err)
	}
	if re.NumSubexp() > 1 {
		return nil, fmt.Errorf("%w: token pattern has more than one capturing group", ErrInvalidArtifact)
	}
	return re, nil
}

// Kind returns "count" or "tfidf"
func (v *TextVectorizer) Kind() string {
	return v.kind
}

// OutputDim is the vocabulary size
func (v *TextVectorizer) OutputDim() int {
	return len(v.vocabulary)
}

// Tokenize splits text into terms, applying lowercasing and stop word removal
func (v *TextVectorizer) Tokenize(text string) []string {
	if v.lowercase {
		text = strings.ToLower(text)
	}

	var tokens []string
	if v.token.NumSubexp() == 1 {
		for _, m := range v.token.FindAllStringSubmatch(text, -1) {
			tokens = append(tokens, m[1])
		}
	} else {
		tokens = v.token.FindAllString(text, -1)
	}

	if v.stopWords == nil {
		return tokens
	}
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, stop := v.stopWords[tok]; !stop {
			kept = append(kept, tok)
		}
	}
	return kept
}

// Terms expands tokens into the configured word n-grams
func (v *TextVectorizer) Terms(tokens []string) []string {
	if v.ngramMax == 1 {
		return tokens
	}

	var terms []string
	if v.ngramMin == 1 {
		terms = append(terms, tokens...)
	}
	minN := v.ngramMin
	if minN == 1 {
		minN = 2
	}
	for n := minN; n <= v.ngramMax && n <= len(tokens); n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// Transform maps text into the vocabulary space. Terms outside the vocabulary are ignored.
func (v *TextVectorizer) Transform(text string) model.SparseVector {
	counts := make(map[int]float64)
	for _, term := range v.Terms(v.Tokenize(text)) {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}

	if v.binary {
		for idx := range counts {
			counts[idx] = 1
		}
	}

	if v.kind == VectorizerKindTFIDF {
		v.weigh(counts)
	}

	return model.NewSparseVector(v.OutputDim(), counts)
}

func (v *TextVectorizer) weigh(counts map[int]float64) {
	for idx, tf := range counts {
		if v.sublinearTF {
			tf = 1 + math.Log(tf)
		}
		if v.idf != nil {
			tf *= v.idf[idx]
		}
		counts[idx] = tf
	}

	var norm float64
	switch v.norm {
	case "l1":
		for _, w := range counts {
			norm += math.Abs(w)
		}
	case "l2":
		for _, w := range counts {
			norm += w * w
		}
		norm = math.Sqrt(norm)
	default:
		return
	}
	if norm == 0 {
		return
	}
	for idx := range counts {
		counts[idx] /= norm
	}
}
