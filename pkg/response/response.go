package response

import (
	"errors"
	"net/http"

	"github.com/code-100-precent/LingSync/pkg/apperr"
	"github.com/code-100-precent/LingSync/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorBody is the uniform error envelope
type ErrorBody struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success writes 200 {"data": data}
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Created writes 201 {"data": data}
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

// Page writes a paginated listing
func Page(c *gin.Context, page, limit int, total int64, data any) {
	c.JSON(http.StatusOK, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"data":  data,
	})
}

// Fail aborts with the error envelope
func Fail(c *gin.Context, status int, message string, details any) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: true, Message: message, Details: details})
}

// Error maps err to a status code and aborts with the error envelope.
func Error(c *gin.Context, err error) {
	status, body := Resolve(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(status, body)
}

// Resolve returns the status code and envelope for err
func Resolve(err error) (int, ErrorBody) {
	var (
		validationErr *apperr.ValidationError
		notFoundErr   *apperr.NotFoundError
		conflictErr   *apperr.ConflictError
		storageErr    *apperr.StorageUnavailableError
		remoteErr     *apperr.RemoteFetchError
	)

	switch {
	case errors.As(err, &validationErr):
		body := ErrorBody{Error: true, Message: validationErr.Error()}
		if len(validationErr.Issues) > 0 {
			body.Details = validationErr.Issues
		}
		return http.StatusBadRequest, body
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, ErrorBody{Error: true, Message: notFoundErr.Error()}
	case errors.As(err, &conflictErr):
		return http.StatusConflict, ErrorBody{Error: true, Message: conflictErr.Error()}
	case errors.As(err, &storageErr):
		body := ErrorBody{Error: true, Message: storageErr.Error()}
		if storageErr.Err != nil {
			body.Details = gin.H{"code": storageErr.Err.Error()}
		}
		return http.StatusServiceUnavailable, body
	case errors.As(err, &remoteErr):
		body := ErrorBody{Error: true, Message: remoteErr.Error()}
		if remoteErr.StatusCode != 0 {
			body.Details = gin.H{"kind": remoteErr.Kind, "upstreamStatus": remoteErr.StatusCode}
		} else {
			body.Details = gin.H{"kind": remoteErr.Kind}
		}
		return http.StatusBadGateway, body
	default:
		return http.StatusInternalServerError, ErrorBody{Error: true, Message: "Internal Server Error"}
	}
}
