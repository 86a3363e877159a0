package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tobias-fyi/subwise/internal/domain/entity"
	"github.com/tobias-fyi/subwise/internal/domain/service"
	"github.com/tobias-fyi/subwise/internal/usecase"
)

// MockRecommendationUsecase is a mock implementation of RecommendationUsecase
type MockRecommendationUsecase struct {
	mock.Mock
}

func (m *MockRecommendationUsecase) Recommend(ctx context.Context, input *usecase.RecommendInput) (*usecase.RecommendOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RecommendOutput), args.Error(1)
}

func (m *MockRecommendationUsecase) Subreddits() *usecase.SubredditsOutput {
	args := m.Called()
	return args.Get(0).(*usecase.SubredditsOutput)
}

func (m *MockRecommendationUsecase) ModelInfo() service.ModelInfo {
	args := m.Called()
	return args.Get(0).(service.ModelInfo)
}

func (m *MockRecommendationUsecase) History(ctx context.Context, limit, offset int) (*usecase.PredictionListOutput, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.PredictionListOutput), args.Error(1)
}

func (m *MockRecommendationUsecase) HistoryByID(ctx context.Context, id uuid.UUID) (*entity.PredictionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PredictionRecord), args.Error(1)
}

// stubPredictor ranks every post the same way
type stubPredictor struct {
	ranking []entity.Recommendation
}

func newStubPredictor() *stubPredictor {
	return &stubPredictor{ranking: []entity.Recommendation{
		{Subreddit: "Rowing", Proba: 0.6},
		{Subreddit: "Cooking", Proba: 0.3},
		{Subreddit: "PLC", Proba: 0.1},
	}}
}

func (p *stubPredictor) Rank(string) ([]entity.Recommendation, error) {
	out := make([]entity.Recommendation, len(p.ranking))
	copy(out, p.ranking)
	return out, nil
}

func (p *stubPredictor) Classes() []string {
	return []string{"Cooking", "PLC", "Rowing"}
}

func (p *stubPredictor) Info() service.ModelInfo {
	return service.ModelInfo{Fingerprint: "f00d", NumClasses: 3}
}

func setupTestRouter(h *RecommendationHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/", h.Recommend)
	r.POST("/api/v1/recommendations", h.RecommendV1)
	r.GET("/api/v1/subreddits", h.Subreddits)
	r.GET("/api/v1/model", h.Model)
	r.GET("/api/v1/predictions", h.ListPredictions)
	r.GET("/api/v1/predictions/:id", h.GetPrediction)
	return r
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRecommend_BareArray(t *testing.T) {
	uc := usecase.NewRecommendationUsecase(newStubPredictor(), usecase.Options{})
	router := setupTestRouter(NewRecommendationHandler(uc))

	w := postJSON(router, "/", `{"post": "I love rowing on the river", "n": 2}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var recs []entity.Recommendation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "Rowing", recs[0].Subreddit)
	assert.Equal(t, "Cooking", recs[1].Subreddit)
	assert.Contains(t, w.Body.String(), `"subreddit"`)
	assert.Contains(t, w.Body.String(), `"proba"`)
}

func TestRecommend_Defaults(t *testing.T) {
	uc := usecase.NewRecommendationUsecase(newStubPredictor(), usecase.Options{})
	router := setupTestRouter(NewRecommendationHandler(uc))

	t.Run("missing n returns all up to default", func(t *testing.T) {
		w := postJSON(router, "/", `{"post": "anything"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var recs []entity.Recommendation
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recs))
		assert.Len(t, recs, 3)
	})

	t.Run("zero n returns empty array", func(t *testing.T) {
		w := postJSON(router, "/", `{"post": "anything", "n": 0}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("empty post is accepted", func(t *testing.T) {
		w := postJSON(router, "/", `{"post": ""}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRecommend_InvalidRequest(t *testing.T) {
	uc := usecase.NewRecommendationUsecase(newStubPredictor(), usecase.Options{})
	router := setupTestRouter(NewRecommendationHandler(uc))

	tests := []struct {
		name string
		body string
	}{
		{name: "missing post", body: `{"n": 2}`},
		{name: "negative n", body: `{"post": "hi", "n": -1}`},
		{name: "non integer n", body: `{"post": "hi", "n": "two"}`},
		{name: "not json", body: `post=hi`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
		})
	}
}

func TestRecommendV1_Envelope(t *testing.T) {
	mockUC := new(MockRecommendationUsecase)
	router := setupTestRouter(NewRecommendationHandler(mockUC))

	output := &usecase.RecommendOutput{
		Recommendations:  []entity.Recommendation{{Subreddit: "PLC", Proba: 0.8}},
		N:                1,
		ModelFingerprint: "f00d",
		Cached:           true,
	}
	mockUC.On("Recommend", mock.Anything, mock.MatchedBy(func(in *usecase.RecommendInput) bool {
		return in.Post != nil && *in.Post == "ladder logic" && in.N != nil && *in.N == 1
	})).Return(output, nil)

	w := postJSON(router, "/api/v1/recommendations", `{"post": "ladder logic", "n": 1}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool                    `json:"success"`
		Data    usecase.RecommendOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, *output, response.Data)
	mockUC.AssertExpectations(t)
}

func TestRecommendV1_InternalError(t *testing.T) {
	mockUC := new(MockRecommendationUsecase)
	router := setupTestRouter(NewRecommendationHandler(mockUC))
	mockUC.On("Recommend", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	w := postJSON(router, "/api/v1/recommendations", `{"post": "x"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestSubreddits(t *testing.T) {
	mockUC := new(MockRecommendationUsecase)
	router := setupTestRouter(NewRecommendationHandler(mockUC))
	mockUC.On("Subreddits").Return(&usecase.SubredditsOutput{Subreddits: []string{"Cooking", "PLC"}, Count: 2})

	req, _ := http.NewRequest("GET", "/api/v1/subreddits", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"subreddits":["Cooking","PLC"]`)
}

func TestModel(t *testing.T) {
	mockUC := new(MockRecommendationUsecase)
	router := setupTestRouter(NewRecommendationHandler(mockUC))
	mockUC.On("ModelInfo").Return(service.ModelInfo{Fingerprint: "f00d", VectorizerKind: "count", NumClasses: 3})

	req, _ := http.NewRequest("GET", "/api/v1/model", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"fingerprint":"f00d"`)
	assert.Contains(t, w.Body.String(), `"vectorizer_kind":"count"`)
}

func TestListPredictions(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockUC := new(MockRecommendationUsecase)
		router := setupTestRouter(NewRecommendationHandler(mockUC))
		mockUC.On("History", mock.Anything, 10, 5).Return(&usecase.PredictionListOutput{
			Predictions: []*entity.PredictionRecord{{ID: uuid.New(), TopSubreddit: "Rowing"}},
			Total:       6,
			Limit:       10,
			Offset:      5,
		}, nil)

		req, _ := http.NewRequest("GET", "/api/v1/predictions?limit=10&offset=5", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"top_subreddit":"Rowing"`)
		mockUC.AssertExpectations(t)
	})

	t.Run("history disabled", func(t *testing.T) {
		mockUC := new(MockRecommendationUsecase)
		router := setupTestRouter(NewRecommendationHandler(mockUC))
		mockUC.On("History", mock.Anything, usecase.DefaultHistoryLimit, 0).Return(nil, usecase.ErrHistoryDisabled)

		req, _ := http.NewRequest("GET", "/api/v1/predictions", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "NOT_FOUND")
	})
}

func TestGetPrediction(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockUC := new(MockRecommendationUsecase)
		router := setupTestRouter(NewRecommendationHandler(mockUC))
		id := uuid.New()
		mockUC.On("HistoryByID", mock.Anything, id).Return(&entity.PredictionRecord{ID: id, TopSubreddit: "PLC"}, nil)

		req, _ := http.NewRequest("GET", "/api/v1/predictions/"+id.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), id.String())
	})

	t.Run("not found", func(t *testing.T) {
		mockUC := new(MockRecommendationUsecase)
		router := setupTestRouter(NewRecommendationHandler(mockUC))
		id := uuid.New()
		mockUC.On("HistoryByID", mock.Anything, id).Return(nil, usecase.ErrPredictionNotFound)

		req, _ := http.NewRequest("GET", "/api/v1/predictions/"+id.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		mockUC := new(MockRecommendationUsecase)
		router := setupTestRouter(NewRecommendationHandler(mockUC))

		req, _ := http.NewRequest("GET", "/api/v1/predictions/not-a-uuid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid prediction id")
	})
}
