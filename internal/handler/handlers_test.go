package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/code-100-precent/LingSync/internal/models"
	"github.com/code-100-precent/LingSync/internal/reconcile"
	"github.com/code-100-precent/LingSync/pkg/elevenlabs"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type provider struct {
	server     *httptest.Server
	failing    atomic.Bool
	agentCalls atomic.Int32
}

func newProvider(t *testing.T) *provider {
	t.Helper()
	p := &provider{}
	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/convai/agents":
			p.agentCalls.Add(1)
			_, _ = w.Write([]byte(`{"agents":[{"agent_id":"a1","name":"Alpha","voice_id":"v1"},{"name":"anonymous"}]}`))
		case "/convai/conversations":
			_, _ = w.Write([]byte(`{"conversations":[
				{"conversation_id":"c1","agent_id":"a1","start_time_unix_secs":1000,"call_duration_secs":60},
				{"conversation_id":"c2","agent_id":"a1","start_time_unix_secs":2000},
				{"conversation_id":"c3","agent_id":"a2"}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(p.server.Close)
	return p
}

type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	provider *provider
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := models.SetupTestDB(t)
	p := newProvider(t)
	client := elevenlabs.NewClient(elevenlabs.Config{APIKey: "xi-test", BaseURL: p.server.URL})

	r := gin.New()
	NewHandlers(db, reconcile.NewEngine(db, client)).Register(r)
	return &testEnv{db: db, router: r, provider: p}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestAgents_BootstrapThenRead(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodGet, "/api/elevenlabs/agents", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.NotNil(t, body["syncedAt"])
	data := body["data"].([]any)
	require.Len(t, data, 1)
	agent := data[0].(map[string]any)
	assert.Equal(t, "a1", agent["agentId"])
	assert.Equal(t, "Alpha", agent["name"])
	assert.Equal(t, "v1", agent["voiceId"])

	w = env.do(http.MethodGet, "/api/elevenlabs/agents", "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Nil(t, body["syncedAt"])
	assert.Len(t, body["data"], 1)
	assert.EqualValues(t, 1, env.provider.agentCalls.Load())

	w = env.do(http.MethodGet, "/api/elevenlabs/agents?sync=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, decode(t, w)["syncedAt"])
	assert.EqualValues(t, 2, env.provider.agentCalls.Load())
}

func TestAgents_RemoteFailure(t *testing.T) {
	env := setupTestEnv(t)
	env.provider.failing.Store(true)

	w := env.do(http.MethodGet, "/api/elevenlabs/agents", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["error"])
	details := body["details"].(map[string]any)
	assert.Equal(t, "agents", details["kind"])
	assert.EqualValues(t, 500, details["upstreamStatus"])
}

func TestConversations_Paginated(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodGet, "/api/elevenlabs/conversations?agentId=a1&page=1&limit=1", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.EqualValues(t, 1, body["page"])
	assert.EqualValues(t, 1, body["limit"])
	assert.EqualValues(t, 2, body["total"])
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "c2", data[0].(map[string]any)["conversationId"])

	w = env.do(http.MethodGet, "/api/elevenlabs/conversations?page=abc&limit=1000", "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.EqualValues(t, 1, body["page"])
	assert.EqualValues(t, 100, body["limit"])
	assert.EqualValues(t, 3, body["total"])
}

func TestUsers_CRUD(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodPost, "/api/users", `{"name":"Ada","email":"ada@example.com"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "active", user["status"])
	id := int(user["id"].(float64))

	w = env.do(http.MethodPost, "/api/users", `{"name":"Other","email":"ada@example.com"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already exists", decode(t, w)["message"])

	w = env.do(http.MethodPut, "/api/users/"+strconv.Itoa(id), `{"role":"admin"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "admin", decode(t, w)["data"].(map[string]any)["role"])

	w = env.do(http.MethodPut, "/api/users/"+strconv.Itoa(id), `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No fields to update", decode(t, w)["message"])

	w = env.do(http.MethodGet, "/api/users?search=ada", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = env.do(http.MethodDelete, "/api/users/"+strconv.Itoa(id), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodDelete, "/api/users/"+strconv.Itoa(id), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode(t, w)["message"])

	w = env.do(http.MethodPut, "/api/users/"+strconv.Itoa(id), `{"name":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/users", "")
	assert.EqualValues(t, 0, decode(t, w)["total"])

	var actions []string
	require.NoError(t, env.db.Model(&models.ActivityLog{}).Order("id").Pluck("action", &actions).Error)
	assert.Equal(t, []string{"User created", "User updated", "User deleted"}, actions)
}

func TestUsers_Validation(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodPost, "/api/users", `{"name":"","email":"not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Validation error", body["message"])
	paths := map[string]bool{}
	for _, issue := range body["details"].([]any) {
		paths[issue.(map[string]any)["path"].(string)] = true
	}
	assert.True(t, paths["name"])
	assert.True(t, paths["email"])

	w = env.do(http.MethodPost, "/api/users", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, id := range []string{"0", "-1", "abc"} {
		w = env.do(http.MethodDelete, "/api/users/"+id, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
		assert.Equal(t, "Invalid user id", decode(t, w)["message"])
	}
}

func TestUsers_DatabaseUnavailable(t *testing.T) {
	env := setupTestEnv(t)
	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := env.do(http.MethodGet, "/api/users", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Database is not reachable", decode(t, w)["message"])

	w = env.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	deps := decode(t, w)["deps"].(map[string]any)
	assert.Equal(t, false, deps["databaseReachable"])
}

func TestLogs(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodPost, "/api/logs", `{"description":"no action"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/logs", `{"action":"Manual note"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	entry := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "Manual note", entry["action"])
	assert.Nil(t, entry["description"])

	w = env.do(http.MethodPost, "/api/logs", `{"action":"Long","description":"`+strings.Repeat("x", 2001)+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/logs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])
}

func TestSystemRoutes(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "/api/users", body["endpoints"].(map[string]any)["users"])

	w = env.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["deps"].(map[string]any)["databaseReachable"])

	w = env.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPatch, "/api/nowhere?x=1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found: PATCH /api/nowhere?x=1", decode(t, w)["message"])
}

func TestIsTruthy(t *testing.T) {
	assert.True(t, isTruthy("true"))
	assert.False(t, isTruthy("1"))
	assert.False(t, isTruthy("TRUE"))
	assert.False(t, isTruthy(" true"))
	assert.False(t, isTruthy(""))
	assert.False(t, isTruthy("false"))
	assert.False(t, isTruthy("yes"))
}
