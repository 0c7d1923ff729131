package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hiroki-koketsu/go-task-tracker/internal/telemetry"
	"github.com/hiroki-koketsu/go-task-tracker/internal/usecase"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/hiroki-koketsu/go-task-tracker/internal/handler")

const (
	routeTasks       = "/api/tasks"
	routeTaskByID    = "/api/tasks/{id}"
	routeTasksByUser = "/api/tasks/user/{userId}"
)

// TaskUseCases are the use cases served by TaskHandler.
type TaskUseCases struct {
	GetTasksByUser *usecase.GetTasksByUser
	CreateTask     *usecase.CreateTask
	UpdateTask     *usecase.UpdateTask
	DeleteTask     *usecase.DeleteTask
}

// TaskHandler handles HTTP requests for tasks.
type TaskHandler struct {
	base
	uc TaskUseCases
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(uc TaskUseCases, logger *slog.Logger, metrics *telemetry.Metrics) *TaskHandler {
	return &TaskHandler{
		base: base{logger: logger, metrics: metrics},
		uc:   uc,
	}
}

// Routes returns the chi router with task routes.
func (h *TaskHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/user/{userId}", h.ListByUser)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// ListByUser returns a user's tasks, newest first.
func (h *TaskHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "TaskHandler.ListByUser")
	defer span.End()

	userID, err := pathID("userId", "User ID", chi.URLParam(r, "userId"))
	if err != nil {
		status := h.respondError(ctx, w, err)
		h.recordMetrics(ctx, http.MethodGet, routeTasksByUser, status, start)
		return
	}
	span.SetAttributes(attribute.String("user.id", userID))

	h.logger.InfoContext(ctx, "listing tasks", slog.String("user_id", userID))

	tasks, err := h.uc.GetTasksByUser.Execute(ctx, userID)
	if err != nil {
		status := h.respondError(ctx, w, err)
		h.recordMetrics(ctx, http.MethodGet, routeTasksByUser, status, start)
		return
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	h.logger.InfoContext(ctx, "tasks listed", slog.Int("count", len(tasks)))

	h.respondData(w, http.StatusOK, tasks)
	h.recordMetrics(ctx, http.MethodGet, routeTasksByUser, http.StatusOK, start)
}

// Create adds a new task.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "TaskHandler.Create")
	defer span.End()

	var req CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		status := h.respondError(ctx, w, err)
		h.recordMetrics(ctx, http.MethodPost, routeTasks, status, start)
		return
	}

	if err := req.Validate(); err != nil {
		status := h.respondError(ctx, w, err)
		h.recordMetrics(ctx, http.MethodPost, routeTasks, status, start)
		return
	}

	h.logger.InfoContext(ctx, "creating task",
		slog.String("user_id", *req.UserID),
		slog.String("title", *req.Title),
	)

	task, err := h.uc.CreateTask.Execute(ctx, usecase.CreateTaskInput{
		UserID:      *req.UserID,
		Title:       *req.Title,
		Description: *req.Description,
		Completed:   *req.Completed,
	})
	if err != nil {
		status := h.respondError(ctx, w, err)
		h.recordMetrics(ctx, http.MethodPost, routeTasks, status, start)
		return
	}

	span.SetAttributes(attribute.String("task.id", task.ID))
	h.logger.InfoContext(ctx, "task created", slog.String("id", task.ID))

	h.respondData(w, http.StatusCreated, task)
	h.recordMetrics(ctx, http.MethodPost, routeTasks, http.StatusCreated, start)
}

// Update modifies an existing task.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	id, err := pathID("id", "Task ID", chi.URLParam(r, "id"))

	ctx, span := tracer.Start(ctx, "TaskHandler.Update",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	if err != nil {
		status := h.respondError(ctx, w, err)
		h.recordMetrics(ctx, http.MethodPut, routeTaskByID, status, start)
		return
	}

	var req UpdateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		status := h.respondError(ctx, w, err)
		h.recordMetrics(ctx, http.MethodPut, routeTaskByID, status, start)
		return
	}

	if err := req.Validate(); err != nil {
		status := h.respondError(ctx, w, err)
		h.recordMetrics(ctx, http.MethodPut, routeTaskByID, status, start)
		return
	}

	h.logger.InfoContext(ctx, "updating task", slog.String("id", id))

	task, err := h.uc.UpdateTask.Execute(ctx, id, usecase.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		status := h.respondError(ctx, w, err)
		h.recordMetrics(ctx, http.MethodPut, routeTaskByID, status, start)
		return
	}

	h.logger.InfoContext(ctx, "task updated", slog.String("id", id))

	h.respondData(w, http.StatusOK, task)
	h.recordMetrics(ctx, http.MethodPut, routeTaskByID, http.StatusOK, start)
}

// Delete removes a task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	id, err := pathID("id", "Task ID", chi.URLParam(r, "id"))

	ctx, span := tracer.Start(ctx, "TaskHandler.Delete",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	if err != nil {
		status := h.respondError(ctx, w, err)
		h.recordMetrics(ctx, http.MethodDelete, routeTaskByID, status, start)
		return
	}

	h.logger.InfoContext(ctx, "deleting task", slog.String("id", id))

	if err := h.uc.DeleteTask.Execute(ctx, id); err != nil {
		status := h.respondError(ctx, w, err)
		h.recordMetrics(ctx, http.MethodDelete, routeTaskByID, status, start)
		return
	}

	h.logger.InfoContext(ctx, "task deleted", slog.String("id", id))

	h.respondJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Task deleted successfully"})
	h.recordMetrics(ctx, http.MethodDelete, routeTaskByID, http.StatusOK, start)
}
