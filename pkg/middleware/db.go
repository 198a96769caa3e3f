package middleware

import (
	"context"
	"time"

	"github.com/code-100-precent/LingSync/pkg/apperr"
	"github.com/code-100-precent/LingSync/pkg/constants"
	"github.com/code-100-precent/LingSync/pkg/logger"
	"github.com/code-100-precent/LingSync/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

// InjectDB makes db available to handlers under constants.DbField
func InjectDB(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.DbField, db)
		c.Next()
	}
}

// RequireDB pings the database before the request proceeds and aborts with 503 when it is unreachable
func RequireDB(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := PingDB(c.Request.Context(), db); err != nil {
			logger.Warn("database unavailable", zap.String("path", c.Request.URL.Path), zap.Error(err))
			response.Error(c, apperr.NewStorageUnavailableError("Database is not reachable", err))
			return
		}
		c.Next()
	}
}

// PingDB checks connectivity with a short deadline
func PingDB(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return gorm.ErrInvalidDB
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
