package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tobias-fyi/subwise/internal/adapter/http/middleware"
	"github.com/tobias-fyi/subwise/internal/usecase"
)

// RecommendationHandler handles recommendation HTTP requests
type RecommendationHandler struct {
	recommendationUC usecase.RecommendationUsecase
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(recommendationUC usecase.RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{recommendationUC: recommendationUC}
}

func (h *RecommendationHandler) recommend(c *gin.Context) (*usecase.RecommendOutput, bool) {
	var input usecase.RecommendInput
	if err := c.ShouldBindJSON(&input); err != nil {
		HandleInvalidRequest(c, err.Error())
		return nil, false
	}
	input.RequestID = c.GetString(middleware.RequestIDKey)

	output, err := h.recommendationUC.Recommend(c.Request.Context(), &input)
	if err != nil {
		_ = c.Error(err)
		HandleUsecaseError(c, err)
		return nil, false
	}
	return output, true
}

// Recommend handles POST /
//
// The response is a bare array of {subreddit, proba} objects.
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	output, ok := h.recommend(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, output.Recommendations)
}

// RecommendV1 handles POST /api/v1/recommendations
func (h *RecommendationHandler) RecommendV1(c *gin.Context) {
	output, ok := h.recommend(c)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, output)
}

// Subreddits handles GET /api/v1/subreddits
func (h *RecommendationHandler) Subreddits(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.recommendationUC.Subreddits())
}

// Model handles GET /api/v1/model
func (h *RecommendationHandler) Model(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.recommendationUC.ModelInfo())
}

// ListPredictions handles GET /api/v1/predictions
func (h *RecommendationHandler) ListPredictions(c *gin.Context) {
	params := ParsePagination(c)

	output, err := h.recommendationUC.History(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		_ = c.Error(err)
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// GetPrediction handles GET /api/v1/predictions/:id
func (h *RecommendationHandler) GetPrediction(c *gin.Context) {
	id, err := ExtractUUIDParam(c, "id")
	if err != nil {
		HandleInvalidUUID(c, "prediction id")
		return
	}

	record, err := h.recommendationUC.HistoryByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, record)
}
