package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tobias-fyi/subwise/internal/domain/entity"
)

// PredictionRepository defines the interface for prediction history operations
type PredictionRepository interface {
	// Create stores a new prediction record
	Create(ctx context.Context, record *entity.PredictionRecord) error

	// GetByID retrieves a record by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PredictionRecord, error)

	// List retrieves records with pagination, newest first
	List(ctx context.Context, limit, offset int) ([]*entity.PredictionRecord, int64, error)
}
