package handlers

import (
	"net/http"
	"time"

	"github.com/code-100-precent/LingSync/pkg/config"
	"github.com/code-100-precent/LingSync/pkg/elevenlabs"
	"github.com/code-100-precent/LingSync/pkg/middleware"
	"github.com/gin-gonic/gin"
)

// Index lists the public endpoints
func (h *Handlers) Index(c *gin.Context) {
	prefix := apiPrefix()
	name := "LingSync"
	if config.GlobalConfig != nil && config.GlobalConfig.ServerName != "" {
		name = config.GlobalConfig.ServerName
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"name":    name,
		"message": "API is running",
		"endpoints": gin.H{
			"health":                  "/health",
			"users":                   prefix + "/users",
			"elevenlabsAgents":        prefix + "/elevenlabs/agents",
			"elevenlabsConversations": prefix + "/elevenlabs/conversations",
			"logs":                    prefix + "/logs",
		},
		"ts": now(),
	})
}

// HealthCheck reports liveness and which dependencies are usable. It always answers 200.
func (h *Handlers) HealthCheck(c *gin.Context) {
	deps := gin.H{
		"databaseReachable":    middleware.PingDB(c.Request.Context(), h.db) == nil,
		"elevenlabsConfigured": false,
	}
	if config.GlobalConfig != nil {
		deps["databaseDriver"] = config.GlobalConfig.DBDriver
		deps["elevenlabsConfigured"] = config.GlobalConfig.ElevenLabs.Configured()
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"ts":   now(),
		"deps": deps,
	})
}

func now() string {
	return time.Now().UTC().Format(elevenlabs.ISOLayout)
}
