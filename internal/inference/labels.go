package inference

import "fmt"

// LabelEncoder holds the ordered class names the classifier was fitted on
type LabelEncoder struct {
	classes []string
}

// NewLabelEncoder creates a LabelEncoder. Classes must be non-empty and unique.
func NewLabelEncoder(classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("%w: label encoder has no classes", ErrInvalidArtifact)
	}

	seen := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		if _, ok := seen[c]; ok {
			return nil, fmt.Errorf("%w: duplicate class %q", ErrInvalidArtifact, c)
		}
		seen[c] = struct{}{}
	}

	return &LabelEncoder{classes: append([]string(nil), classes...)}, nil
}

// Classes returns a copy of the class names in encoder order
func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}
