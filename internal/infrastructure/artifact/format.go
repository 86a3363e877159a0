package artifact

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tobias-fyi/subwise/internal/inference"
)

// Artifact kinds for the label encoder and selector documents
const (
	KindLabelEncoder = "label_encoder"
	KindSupport      = "support"
)

// ErrUnsupportedFormat is returned for artifact files with an unknown extension
var ErrUnsupportedFormat = fmt.Errorf("%w: unsupported artifact format", inference.ErrInvalidArtifact)

// LabelEncoderDoc is the exported state of a fitted label encoder
type LabelEncoderDoc struct {
	Kind    string   `json:"kind" msgpack:"kind"`
	Classes []string `json:"classes" msgpack:"classes"`
}

// SelectorDoc is the exported state of a fitted feature selector
type SelectorDoc struct {
	Kind        string `json:"kind" msgpack:"kind"`
	NFeaturesIn int    `json:"n_features_in" msgpack:"n_features_in"`
	Support     []int  `json:"support" msgpack:"support"`
}

// VectorizerDoc is the exported state of a fitted count or tf-idf vectorizer
type VectorizerDoc struct {
	Kind         string         `json:"kind" msgpack:"kind"`
	Vocabulary   map[string]int `json:"vocabulary" msgpack:"vocabulary"`
	Lowercase    *bool          `json:"lowercase" msgpack:"lowercase"`
	TokenPattern string         `json:"token_pattern" msgpack:"token_pattern"`
	NgramRange   []int          `json:"ngram_range" msgpack:"ngram_range"`
	StopWords    []string       `json:"stop_words" msgpack:"stop_words"`
	Binary       bool           `json:"binary" msgpack:"binary"`
	IDF          []float64      `json:"idf" msgpack:"idf"`
	Norm         *string        `json:"norm" msgpack:"norm"`
	SublinearTF  bool           `json:"sublinear_tf" msgpack:"sublinear_tf"`
}

// ClassifierDoc is the exported state of a fitted naive Bayes classifier
type ClassifierDoc struct {
	Kind           string      `json:"kind" msgpack:"kind"`
	ClassLogPrior  []float64   `json:"class_log_prior" msgpack:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob" msgpack:"feature_log_prob"`
}

// Decode unmarshals data into v using the codec implied by the source extension
func Decode(source string, data []byte, v interface{}) error {
	switch ext := sourceExt(source); ext {
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("%w: decode %s: %v", inference.ErrInvalidArtifact, source, err)
		}
	case ".msgpack", ".mp":
		if err := msgpack.Unmarshal(data, v); err != nil {
			return fmt.Errorf("%w: decode %s: %v", inference.ErrInvalidArtifact, source, err)
		}
	case ".pkl", ".pickle":
		return fmt.Errorf("%w %q: export pickled artifacts to .json or .msgpack", ErrUnsupportedFormat, ext)
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedFormat, ext)
	}
	return nil
}

func sourceExt(source string) string {
	if isRemote(source) {
		if u, err := url.Parse(source); err == nil {
			return strings.ToLower(path.Ext(u.Path))
		}
	}
	return strings.ToLower(path.Ext(source))
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// BuildLabelEncoder converts a decoded document into a label encoder
func BuildLabelEncoder(doc *LabelEncoderDoc) (*inference.LabelEncoder, error) {
	if doc.Kind != "" && doc.Kind != KindLabelEncoder {
		return nil, fmt.Errorf("%w: expected kind %q, got %q", inference.ErrInvalidArtifact, KindLabelEncoder, doc.Kind)
	}
	return inference.NewLabelEncoder(doc.Classes)
}

// BuildSelector converts a decoded document into a support selector
func BuildSelector(doc *SelectorDoc) (*inference.SupportSelector, error) {
	if doc.Kind != "" && doc.Kind != KindSupport {
		return nil, fmt.Errorf("%w: expected kind %q, got %q", inference.ErrInvalidArtifact, KindSupport, doc.Kind)
	}
	return inference.NewSupportSelector(doc.NFeaturesIn, doc.Support)
}

// BuildVectorizer converts a decoded document into a text vectorizer. Options
// left out of the document take scikit-learn's defaults.
func BuildVectorizer(doc *VectorizerDoc) (*inference.TextVectorizer, error) {
	cfg := inference.VectorizerConfig{
		Kind:         doc.Kind,
		Vocabulary:   doc.Vocabulary,
		Lowercase:    true,
		TokenPattern: doc.TokenPattern,
		StopWords:    doc.StopWords,
		Binary:       doc.Binary,
		IDF:          doc.IDF,
		SublinearTF:  doc.SublinearTF,
	}
	if doc.Lowercase != nil {
		cfg.Lowercase = *doc.Lowercase
	}

	switch len(doc.NgramRange) {
	case 0:
	case 2:
		cfg.NgramMin, cfg.NgramMax = doc.NgramRange[0], doc.NgramRange[1]
	default:
		return nil, fmt.Errorf("%w: ngram_range must have two elements", inference.ErrInvalidArtifact)
	}

	if doc.Kind == inference.VectorizerKindTFIDF {
		cfg.Norm = "l2"
		if doc.Norm != nil {
			cfg.Norm = *doc.Norm
		}
	}

	return inference.NewVectorizer(cfg)
}

// BuildClassifier converts a decoded document into a naive Bayes classifier
func BuildClassifier(doc *ClassifierDoc) (*inference.NaiveBayes, error) {
	return inference.NewNaiveBayes(doc.Kind, doc.ClassLogPrior, doc.FeatureLogProb)
}
