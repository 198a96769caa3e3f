package middleware

import (
	"strings"
	"time"

	"github.com/code-100-precent/LingSync/pkg/constants"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mssola/user_agent"
	"go.uber.org/zap"
)

// LoggerMiddleware tags every request with an id and logs it once it completes.
// Monitoring paths and successful GETs are not logged.
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		method := c.Request.Method

		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constants.RequestIDField, requestID)
		c.Header(constants.HeaderRequestID, requestID)

		c.Next()

		if !shouldLogRequest(method, path, c.Writer.Status()) {
			return
		}

		ua := user_agent.New(c.Request.UserAgent())
		browser, version := ua.Browser()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.Int("status", c.Writer.Status()),
			zap.String("method", method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.String("browser", strings.TrimSpace(browser+" "+version)),
			zap.String("os", ua.OS()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= 500 {
			logger.Error("Request", fields...)
		} else {
			logger.Info("Request", fields...)
		}
	}
}

func shouldLogRequest(method, path string, status int) bool {
	if strings.Contains(path, "/metrics") ||
		strings.Contains(path, "/health") ||
		strings.Contains(path, "/favicon.ico") {
		return false
	}
	// GETs trigger remote syncs, so failed ones are still worth a line
	if method == "GET" && status < 400 {
		return false
	}
	return true
}

// RequestID returns the id LoggerMiddleware assigned, if any
func RequestID(c *gin.Context) string {
	return c.GetString(constants.RequestIDField)
}
