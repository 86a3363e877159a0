package inference

import "errors"

// Error definitions for building and running an inference pipeline
var (
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrInvalidArtifact   = errors.New("invalid artifact")
)
