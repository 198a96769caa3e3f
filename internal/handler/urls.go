package handlers

import (
	"fmt"
	"net/http"

	"github.com/code-100-precent/LingSync/internal/reconcile"
	"github.com/code-100-precent/LingSync/pkg/config"
	"github.com/code-100-precent/LingSync/pkg/metrics"
	"github.com/code-100-precent/LingSync/pkg/middleware"
	"github.com/code-100-precent/LingSync/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handlers struct {
	db       *gorm.DB
	engine   *reconcile.Engine
	activity reconcile.ActivityLogger
	metrics  *metrics.Metrics
}

func NewHandlers(db *gorm.DB, engine *reconcile.Engine) *Handlers {
	return &Handlers{
		db:       db,
		engine:   engine,
		activity: reconcile.NewDBActivityLogger(db),
		metrics:  metrics.NewMetrics(),
	}
}

func (h *Handlers) Register(engine *gin.Engine) {
	engine.GET("/", h.Index)
	engine.GET("/health", h.HealthCheck)
	if config.GlobalConfig == nil || config.GlobalConfig.MetricsEnabled {
		engine.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	r := engine.Group(apiPrefix())
	r.Use(middleware.InjectDB(h.db))

	h.registerElevenLabsRoutes(r)
	h.registerUserRoutes(r)
	h.registerLogRoutes(r)

	engine.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, fmt.Sprintf("Route not found: %s %s", c.Request.Method, c.Request.URL.RequestURI()), nil)
	})
}

// ElevenLabs sync routes
func (h *Handlers) registerElevenLabsRoutes(r *gin.RouterGroup) {
	el := r.Group("elevenlabs", middleware.RequireDB(h.db))
	{
		el.GET("/agents", h.handleSyncAgents)
		el.GET("/conversations", h.handleSyncConversations)
	}
}

// User Module
func (h *Handlers) registerUserRoutes(r *gin.RouterGroup) {
	users := r.Group("users", middleware.RequireDB(h.db))
	{
		users.GET("", h.handleListUsers)
		users.POST("", h.handleCreateUser)
		users.PUT("/:id", h.handleUpdateUser)
		users.DELETE("/:id", h.handleDeleteUser)
	}
}

// Activity log
func (h *Handlers) registerLogRoutes(r *gin.RouterGroup) {
	logs := r.Group("logs")
	{
		logs.GET("", h.handleListLogs)
		logs.POST("", h.handleCreateLog)
	}
}

func apiPrefix() string {
	if config.GlobalConfig == nil || config.GlobalConfig.APIPrefix == "" {
		return "/api"
	}
	return config.GlobalConfig.APIPrefix
}
