package handlers

import (
	"github.com/code-100-precent/LingSync/internal/models"
	"github.com/code-100-precent/LingSync/pkg/response"
	"github.com/gin-gonic/gin"
)

type CreateLogRequest struct {
	Action      string  `json:"action" binding:"required,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// handleCreateLog POST /logs
func (h *Handlers) handleCreateLog(c *gin.Context) {
	var req CreateLogRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	entry, err := models.CreateActivityLog(h.db.WithContext(c.Request.Context()), req.Action, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// handleListLogs GET /logs?page=&limit=
func (h *Handlers) handleListLogs(c *gin.Context) {
	p := models.ParsePagination(c.Query("page"), c.Query("limit"))
	logs, total, err := models.ListActivityLogs(h.db.WithContext(c.Request.Context()), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, p.Page, p.Limit, total, logs)
}
