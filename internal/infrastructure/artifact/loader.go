// Package artifact reads the four exported model artifacts and assembles them
// into a validated inference bundle.
package artifact

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tobias-fyi/subwise/internal/inference"
)

// Sources names where each artifact is read from. A source is a file path or an http(s) URL.
type Sources struct {
	LabelEncoder string
	Selector     string
	Vectorizer   string
	Classifier   string
}

// Fetcher downloads remote artifacts
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Loader reads artifacts from a filesystem or a Fetcher
type Loader struct {
	fs      afero.Fs
	fetcher Fetcher
	logger  *zap.Logger
}

// NewLoader creates a Loader. fetcher may be nil when every source is local.
func NewLoader(fs afero.Fs, fetcher Fetcher, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{fs: fs, fetcher: fetcher, logger: logger}
}

// Load reads all four artifacts concurrently, decodes them and checks that
// their dimensions chain.
func (l *Loader) Load(ctx context.Context, src Sources) (*inference.Bundle, error) {
	sources := []struct {
		name   string
		source string
	}{
		{"label_encoder", src.LabelEncoder},
		{"selector", src.Selector},
		{"vectorizer", src.Vectorizer},
		{"classifier", src.Classifier},
	}

	raw := make([][]byte, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range sources {
		i, s := i, s
		g.Go(func() error {
			data, err := l.read(gctx, s.source)
			if err != nil {
				return fmt.Errorf("failed to read %s artifact: %w", s.name, err)
			}
			l.logger.Info("Read artifact",
				zap.String("artifact", s.name),
				zap.String("source", s.source),
				zap.Int("bytes", len(data)),
			)
			raw[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var leDoc LabelEncoderDoc
	if err := Decode(src.LabelEncoder, raw[0], &leDoc); err != nil {
		return nil, err
	}
	labels, err := BuildLabelEncoder(&leDoc)
	if err != nil {
		return nil, fmt.Errorf("label encoder: %w", err)
	}

	var selDoc SelectorDoc
	if err := Decode(src.Selector, raw[1], &selDoc); err != nil {
		return nil, err
	}
	sel, err := BuildSelector(&selDoc)
	if err != nil {
		return nil, fmt.Errorf("selector: %w", err)
	}

	var vecDoc VectorizerDoc
	if err := Decode(src.Vectorizer, raw[2], &vecDoc); err != nil {
		return nil, err
	}
	vec, err := BuildVectorizer(&vecDoc)
	if err != nil {
		return nil, fmt.Errorf("vectorizer: %w", err)
	}

	var clfDoc ClassifierDoc
	if err := Decode(src.Classifier, raw[3], &clfDoc); err != nil {
		return nil, err
	}
	clf, err := BuildClassifier(&clfDoc)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	bundle, err := inference.NewBundle(labels, vec, sel, clf, Fingerprint(raw...))
	if err != nil {
		return nil, err
	}

	l.logger.Info("Artifact bundle ready",
		zap.String("fingerprint", bundle.Fingerprint),
		zap.Int("vocabulary", vec.OutputDim()),
		zap.Int("selected", sel.OutputDim()),
		zap.Int("classes", clf.NumClasses()),
	)
	return bundle, nil
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if source == "" {
		return nil, errors.New("no source configured")
	}
	if isRemote(source) {
		if l.fetcher == nil {
			return nil, fmt.Errorf("no fetcher for remote source %s", source)
		}
		return l.fetcher.Fetch(ctx, source)
	}
	return afero.ReadFile(l.fs, source)
}

// Fingerprint hashes the raw artifacts in order. Each part is length prefixed
// so moving bytes between artifacts changes the result.
func Fingerprint(parts ...[]byte) string {
	h := sha256.New()
	var size [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(size[:], uint64(len(p)))
		h.Write(size[:])
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
