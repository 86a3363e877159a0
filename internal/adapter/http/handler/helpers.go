package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tobias-fyi/subwise/internal/usecase"
)

// PaginationParams is a page of prediction history
type PaginationParams struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit and offset for /api/v1/predictions. Missing or
// malformed values fall back to the first page of DefaultHistoryLimit records,
// and limit is capped at MaxHistoryLimit.
func ParsePagination(c *gin.Context) *PaginationParams {
	limit := queryInt(c, "limit", usecase.DefaultHistoryLimit)
	if limit < 1 {
		limit = usecase.DefaultHistoryLimit
	}
	if limit > usecase.MaxHistoryLimit {
		limit = usecase.MaxHistoryLimit
	}

	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	return &PaginationParams{Limit: limit, Offset: offset}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw, ok := c.GetQuery(key)
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// ExtractUUIDParam parses a UUID path parameter such as a prediction id
func ExtractUUIDParam(c *gin.Context, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", param, err)
	}
	return id, nil
}
