package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tobias-fyi/subwise/internal/adapter/http/middleware"
)

// Response is the envelope used by every /api/v1 endpoint and by all errors
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *MetaInfo   `json:"meta"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MetaInfo identifies the request and the model that served it
type MetaInfo struct {
	Timestamp        string `json:"timestamp"`
	RequestID        string `json:"request_id"`
	ModelFingerprint string `json:"model_fingerprint,omitempty"`
}

func newMeta(c *gin.Context) *MetaInfo {
	requestID := c.GetString(middleware.RequestIDKey)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return &MetaInfo{
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		RequestID:        requestID,
		ModelFingerprint: c.GetString(middleware.ModelFingerprintKey),
	}
}

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Data:    data,
		Meta:    newMeta(c),
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message},
		Meta:    newMeta(c),
	})
}
