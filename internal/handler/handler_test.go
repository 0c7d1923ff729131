package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hiroki-koketsu/go-task-tracker/internal/di"
	"github.com/hiroki-koketsu/go-task-tracker/internal/model"
	"github.com/hiroki-koketsu/go-task-tracker/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	StatusCode int             `json:"statusCode"`
}

func newTestServer(t *testing.T, repos *di.Repositories) *httptest.Server {
	t.Helper()

	metrics, err := telemetry.NewMetrics(noop.NewMeterProvider().Meter("test"), repos.TaskCount, repos.UserCount)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := httptest.NewServer(NewRouter(di.NewWithRepositories(repos), RouterConfig{CORSOrigin: "*"}, logger, metrics))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (int, envelope) {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestTaskRoutes_Lifecycle(t *testing.T) {
	srv := newTestServer(t, di.NewMemoryRepositories())

	status, env := do(t, srv, http.MethodPost, "/api/tasks",
		`{"userId":" u1 ","title":" Buy milk ","description":"2%","completed":false}`)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Success)

	var created model.Task
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "2%", created.Description)
	assert.False(t, created.Completed)

	status, env = do(t, srv, http.MethodPut, "/api/tasks/"+created.ID, `{"completed":true}`)
	require.Equal(t, http.StatusOK, status)
	var updated model.Task
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.True(t, updated.Completed)
	assert.Equal(t, "Buy milk", updated.Title)
	assert.False(t, updated.UpdatedAt.Before(created.CreatedAt))

	status, env = do(t, srv, http.MethodGet, "/api/tasks/user/u1", "")
	require.Equal(t, http.StatusOK, status)
	var tasks []model.Task
	require.NoError(t, json.Unmarshal(env.Data, &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)

	status, env = do(t, srv, http.MethodDelete, "/api/tasks/"+created.ID, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Task deleted successfully", env.Message)

	status, env = do(t, srv, http.MethodDelete, "/api/tasks/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
	assert.Equal(t, "Task not found", env.Message)
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
}

func TestTaskRoutes_ListEmpty(t *testing.T) {
	srv := newTestServer(t, di.NewMemoryRepositories())

	status, env := do(t, srv, http.MethodGet, "/api/tasks/user/nobody", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestTaskRoutes_CreateValidation(t *testing.T) {
	srv := newTestServer(t, di.NewMemoryRepositories())

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing fields", `{}`, "userId: User ID is required, title: Title is required, description: Description is required, completed: Completed status is required"},
		{"blank title", `{"userId":"u1","title":"  ","description":"","completed":false}`, "title: Title cannot be empty"},
		{"long title", `{"userId":"u1","title":"` + strings.Repeat("a", 101) + `","description":"","completed":false}`, "title: Title must be between 1 and 100 characters"},
		{"wrong type", `{"userId":"u1","title":"t","description":"","completed":"yes"}`, "completed: must be a boolean"},
		{"malformed", `{"userId":`, "invalid request body"},
		{"empty body", ``, "request body is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, srv, http.MethodPost, "/api/tasks", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.want, env.Message)
			assert.Equal(t, http.StatusBadRequest, env.StatusCode)
		})
	}
}

func TestTaskRoutes_UpdateMissingTask(t *testing.T) {
	srv := newTestServer(t, di.NewMemoryRepositories())

	status, env := do(t, srv, http.MethodPut, "/api/tasks/missing", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Task not found", env.Message)

	status, env = do(t, srv, http.MethodPut, "/api/tasks/missing", `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "title: Title cannot be empty", env.Message)
}

func TestUserRoutes(t *testing.T) {
	srv := newTestServer(t, di.NewMemoryRepositories())

	status, env := do(t, srv, http.MethodPost, "/api/users/check", `{"email":"jane@example.com"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "User not found", env.Message)

	status, env = do(t, srv, http.MethodPost, "/api/users", `{"email":" Jane@Example.com "}`)
	require.Equal(t, http.StatusCreated, status)
	var user model.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "jane@example.com", user.Email)

	status, env = do(t, srv, http.MethodPost, "/api/users/check", `{"email":"JANE@example.com"}`)
	require.Equal(t, http.StatusOK, status)
	var found model.User
	require.NoError(t, json.Unmarshal(env.Data, &found))
	assert.Equal(t, user.ID, found.ID)

	status, env = do(t, srv, http.MethodPost, "/api/users", `{"email":"jane@example.com"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "User already exists", env.Message)

	status, env = do(t, srv, http.MethodPost, "/api/users", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid email format", env.Message)

	status, env = do(t, srv, http.MethodPost, "/api/users", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "email: Email is required", env.Message)
}

type failingTaskRepository struct {
	model.TaskRepository
}

func (failingTaskRepository) FindByUserID(context.Context, string) ([]*model.Task, error) {
	return nil, model.Internal("Failed to find tasks by user", errors.New("connection reset"))
}

func TestTaskRoutes_InternalErrorIsNotExposed(t *testing.T) {
	repos := di.NewMemoryRepositories()
	repos.Tasks = failingTaskRepository{}
	srv := newTestServer(t, repos)

	status, env := do(t, srv, http.MethodGet, "/api/tasks/user/u1", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", env.Message)
	assert.Equal(t, http.StatusInternalServerError, env.StatusCode)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}
