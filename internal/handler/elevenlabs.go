package handlers

import (
	"net/http"
	"strings"

	"github.com/code-100-precent/LingSync/internal/models"
	"github.com/code-100-precent/LingSync/internal/reconcile"
	"github.com/code-100-precent/LingSync/pkg/response"
	"github.com/gin-gonic/gin"
)

// handleSyncAgents GET /elevenlabs/agents?sync=true
func (h *Handlers) handleSyncAgents(c *gin.Context) {
	result, err := h.engine.SyncAgents(c.Request.Context(), isTruthy(c.Query("sync")))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleSyncConversations GET /elevenlabs/conversations?agentId=&page=&limit=
func (h *Handlers) handleSyncConversations(c *gin.Context) {
	req := reconcile.ConversationsRequest{
		AgentID:    strings.TrimSpace(c.Query("agentId")),
		Pagination: models.ParsePagination(c.Query("page"), c.Query("limit")),
		Force:      isTruthy(c.Query("sync")),
	}

	result, err := h.engine.SyncConversations(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, result.Page, result.Limit, result.Total, result.Data)
}

// isTruthy only accepts the literal "true"
func isTruthy(v string) bool {
	return v == "true"
}
