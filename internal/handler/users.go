package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/code-100-precent/LingSync/internal/models"
	"github.com/code-100-precent/LingSync/pkg/apperr"
	"github.com/code-100-precent/LingSync/pkg/constants"
	"github.com/code-100-precent/LingSync/pkg/logger"
	"github.com/code-100-precent/LingSync/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CreateUserRequest struct {
	Name   string  `json:"name" binding:"required,min=1,max=255"`
	Email  string  `json:"email" binding:"required,email,max=255"`
	Role   *string `json:"role" binding:"omitempty,min=1,max=64"`
	Status *string `json:"status" binding:"omitempty,min=1,max=32"`
}

type UpdateUserRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=255"`
	Email  *string `json:"email" binding:"omitempty,email,max=255"`
	Role   *string `json:"role" binding:"omitempty,min=1,max=64"`
	Status *string `json:"status" binding:"omitempty,min=1,max=32"`
}

// values returns only the fields present in the body
func (r UpdateUserRequest) values() map[string]any {
	vals := make(map[string]any)
	if r.Name != nil {
		vals["name"] = *r.Name
	}
	if r.Email != nil {
		vals["email"] = strings.TrimSpace(*r.Email)
	}
	if r.Role != nil {
		vals["role"] = *r.Role
	}
	if r.Status != nil {
		vals["status"] = *r.Status
	}
	return vals
}

// handleListUsers GET /users?search=&role=&status=&page=&limit=
func (h *Handlers) handleListUsers(c *gin.Context) {
	p := models.ParsePagination(c.Query("page"), c.Query("limit"))
	filter := models.UserFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Role:   strings.TrimSpace(c.Query("role")),
		Status: strings.TrimSpace(c.Query("status")),
	}

	db := h.db.WithContext(c.Request.Context())
	users, total, err := models.ListUsers(db, filter, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, p.Page, p.Limit, total, users)
}

func (h *Handlers) handleCreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	db := h.db.WithContext(c.Request.Context())
	user, err := models.CreateUser(db, req.Name, req.Email, deref(req.Role), deref(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	h.logActivity(c, constants.ActionUserCreated, fmt.Sprintf("Created user id=%d email=%s", user.ID, user.Email))
	response.Created(c, user)
}

func (h *Handlers) handleUpdateUser(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	vals := req.values()
	if len(vals) == 0 {
		response.Error(c, apperr.NewValidationError("No fields to update"))
		return
	}

	db := h.db.WithContext(c.Request.Context())
	user, err := models.UpdateUser(db, id, vals)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.logActivity(c, constants.ActionUserUpdated, fmt.Sprintf("Updated user id=%d", id))
	response.Success(c, user)
}

// handleDeleteUser soft-deletes; the row stays with status "deleted"
func (h *Handlers) handleDeleteUser(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	db := h.db.WithContext(c.Request.Context())
	if err := models.SoftDeleteUser(db, id); err != nil {
		response.Error(c, err)
		return
	}

	h.logActivity(c, constants.ActionUserDeleted, fmt.Sprintf("Soft deleted user id=%d", id))
	c.Status(http.StatusNoContent)
}

func parseUserID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.NewValidationError("Invalid user id")
	}
	return uint(id), nil
}

// logActivity records an audit entry; failures are only logged
func (h *Handlers) logActivity(c *gin.Context, action, description string) {
	if h.activity == nil {
		return
	}
	if err := h.activity.LogActivity(c.Request.Context(), action, description); err != nil {
		logger.Warn("failed to insert activity log",
			zap.String("action", action),
			zap.Error(err))
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
