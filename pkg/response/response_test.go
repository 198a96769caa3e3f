package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/code-100-precent/LingSync/pkg/apperr"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperr.NewValidationError("Validation error", apperr.Issue{Path: "email", Message: "required"}), http.StatusBadRequest, "Validation error"},
		{"not found", fmt.Errorf("wrapped: %w", apperr.NewNotFoundError("User", "3")), http.StatusNotFound, "User not found"},
		{"conflict", apperr.NewConflictError("Email already exists"), http.StatusConflict, "Email already exists"},
		{"storage", apperr.NewStorageUnavailableError("Database is not reachable", errors.New("refused")), http.StatusServiceUnavailable, "Database is not reachable"},
		{"remote", apperr.NewRemoteFetchError("agents", "/convai/agents", 500, nil), http.StatusBadGateway, "ElevenLabs agents fetch failed (status 500)"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := Resolve(tt.err)
			assert.Equal(t, tt.status, status)
			assert.True(t, body.Error)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestError_WritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		Error(c, apperr.NewValidationError("Validation error", apperr.Issue{Path: "name", Message: "required"}))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "Validation error", body["message"])
	details, ok := body["details"].([]any)
	require.True(t, ok)
	assert.Len(t, details, 1)
}

func TestError_UnknownHidesDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		Error(c, errors.New("sql: secret table missing"))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
	assert.NotContains(t, w.Body.String(), "details")
}
