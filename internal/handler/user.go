package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hiroki-koketsu/go-task-tracker/internal/model"
	"github.com/hiroki-koketsu/go-task-tracker/internal/telemetry"
	"github.com/hiroki-koketsu/go-task-tracker/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
)

const (
	routeUsers     = "/api/users"
	routeUserCheck = "/api/users/check"
)

// UserUseCases are the use cases served by UserHandler.
type UserUseCases struct {
	GetUserByEmail *usecase.GetUserByEmail
	CreateUser     *usecase.CreateUser
}

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	base
	uc UserUseCases
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(uc UserUseCases, logger *slog.Logger, metrics *telemetry.Metrics) *UserHandler {
	return &UserHandler{
		base: base{logger: logger, metrics: metrics},
		uc:   uc,
	}
}

// Routes returns the chi router with user routes.
func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/check", h.Check)
	r.Post("/", h.Create)

	return r
}

// Check looks a user up by email. A missing user is a 404.
func (h *UserHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "UserHandler.Check")
	defer span.End()

	var req EmailRequest
	if err := decodeJSON(r, &req); err != nil {
		status := h.respondError(ctx, w, err)
		h.recordMetrics(ctx, http.MethodPost, routeUserCheck, status, start)
		return
	}

	email, err := req.Normalize()
	if err != nil {
		status := h.respondError(ctx, w, err)
		h.recordMetrics(ctx, http.MethodPost, routeUserCheck, status, start)
		return
	}

	user, err := h.uc.GetUserByEmail.Execute(ctx, email)
	if err != nil {
		status := h.respondError(ctx, w, err)
		h.recordMetrics(ctx, http.MethodPost, routeUserCheck, status, start)
		return
	}

	span.SetAttributes(attribute.Bool("user.found", user != nil))
	if user == nil {
		h.logger.InfoContext(ctx, "user not found")
		h.respondJSON(w, http.StatusNotFound, messageResponse{Success: false, Message: model.ErrUserNotFound.Error()})
		h.recordMetrics(ctx, http.MethodPost, routeUserCheck, http.StatusNotFound, start)
		return
	}

	h.respondData(w, http.StatusOK, user)
	h.recordMetrics(ctx, http.MethodPost, routeUserCheck, http.StatusOK, start)
}

// Create registers a new user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "UserHandler.Create")
	defer span.End()

	var req EmailRequest
	if err := decodeJSON(r, &req); err != nil {
		status := h.respondError(ctx, w, err)
		h.recordMetrics(ctx, http.MethodPost, routeUsers, status, start)
		return
	}

	email, err := req.Normalize()
	if err != nil {
		status := h.respondError(ctx, w, err)
		h.recordMetrics(ctx, http.MethodPost, routeUsers, status, start)
		return
	}

	user, err := h.uc.CreateUser.Execute(ctx, email)
	if err != nil {
		status := h.respondError(ctx, w, err)
		h.recordMetrics(ctx, http.MethodPost, routeUsers, status, start)
		return
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	h.logger.InfoContext(ctx, "user created", slog.String("id", user.ID))

	h.respondData(w, http.StatusCreated, user)
	h.recordMetrics(ctx, http.MethodPost, routeUsers, http.StatusCreated, start)
}
