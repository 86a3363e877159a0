package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tobias-fyi/subwise/internal/domain/entity"
	"github.com/tobias-fyi/subwise/internal/domain/service"
)

// MemoryCache keeps the most recently used rankings in process
type MemoryCache struct {
	lru *lru.Cache[string, []entity.Recommendation]
}

// NewMemoryCache creates an LRU cache holding up to size rankings
func NewMemoryCache(size int) (service.PredictionCache, error) {
	c, err := lru.New[string, []entity.Recommendation](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &MemoryCache{lru: c}, nil
}

// Get returns a copy of the cached ranking for key
func (c *MemoryCache) Get(_ context.Context, key string) ([]entity.Recommendation, bool, error) {
	recs, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return append([]entity.Recommendation(nil), recs...), true, nil
}

// Set stores a copy of recs under key
func (c *MemoryCache) Set(_ context.Context, key string, recs []entity.Recommendation) error {
	c.lru.Add(key, append([]entity.Recommendation(nil), recs...))
	return nil
}
