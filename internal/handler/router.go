package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hiroki-koketsu/go-task-tracker/internal/di"
	"github.com/hiroki-koketsu/go-task-tracker/internal/telemetry"
)

// RouterConfig holds the transport settings for NewRouter.
type RouterConfig struct {
	CORSOrigin     string
	RequestTimeout time.Duration
}

// NewRouter returns the HTTP API backed by the use cases in c.
func NewRouter(c *di.Container, cfg RouterConfig, logger *slog.Logger, metrics *telemetry.Metrics) http.Handler {
	taskHandler := NewTaskHandler(TaskUseCases{
		GetTasksByUser: c.GetTasksByUser,
		CreateTask:     c.CreateTask,
		UpdateTask:     c.UpdateTask,
		DeleteTask:     c.DeleteTask,
	}, logger, metrics)
	userHandler := NewUserHandler(UserUseCases{
		GetUserByEmail: c.GetUserByEmail,
		CreateUser:     c.CreateUser,
	}, logger, metrics)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(cors.Handler(corsOptions(cfg.CORSOrigin)))

	r.Get("/health", Health)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/tasks", taskHandler.Routes())
		r.Mount("/users", userHandler.Routes())
	})

	return r
}

func corsOptions(origin string) cors.Options {
	origins := []string{"*"}
	if origin != "" {
		origins = strings.Split(origin, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

// Health returns a health check response.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
