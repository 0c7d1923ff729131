// Package di wires the store, repositories and use cases once at startup.
package di

import (
	"context"
	"fmt"

	"github.com/hiroki-koketsu/go-task-tracker/internal/config"
	"github.com/hiroki-koketsu/go-task-tracker/internal/model"
	"github.com/hiroki-koketsu/go-task-tracker/internal/repository"
	"github.com/hiroki-koketsu/go-task-tracker/internal/repository/firestore"
	"github.com/hiroki-koketsu/go-task-tracker/internal/usecase"
)

// Repositories bundles the repository contracts with their count
// functions, which feed the metrics gauges.
type Repositories struct {
	Tasks     model.TaskRepository
	Users     model.UserRepository
	TaskCount func(context.Context) (int64, error)
	UserCount func(context.Context) (int64, error)
	closeFn   func() error
}

// Container holds the use cases, each built once with its repository.
type Container struct {
	Repos *Repositories

	CreateTask     *usecase.CreateTask
	UpdateTask     *usecase.UpdateTask
	DeleteTask     *usecase.DeleteTask
	GetTasksByUser *usecase.GetTasksByUser
	CreateUser     *usecase.CreateUser
	GetUserByEmail *usecase.GetUserByEmail
}

// New opens the configured store and builds the container.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	repos, err := NewRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithRepositories(repos), nil
}

// NewWithRepositories builds the use cases on top of repos.
func NewWithRepositories(repos *Repositories) *Container {
	return &Container{
		Repos:          repos,
		CreateTask:     usecase.NewCreateTask(repos.Tasks),
		UpdateTask:     usecase.NewUpdateTask(repos.Tasks),
		DeleteTask:     usecase.NewDeleteTask(repos.Tasks),
		GetTasksByUser: usecase.NewGetTasksByUser(repos.Tasks),
		CreateUser:     usecase.NewCreateUser(repos.Users),
		GetUserByEmail: usecase.NewGetUserByEmail(repos.Users),
	}
}

// NewRepositories returns the repositories for cfg.StoreDriver.
func NewRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return NewMemoryRepositories(), nil
	case config.StoreFirestore:
		client, err := firestore.NewClient(ctx, cfg.ProjectID, cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		tasks := firestore.NewTaskRepositoryFS(client)
		users := firestore.NewUserRepositoryFS(client)
		return &Repositories{
			Tasks:     tasks,
			Users:     users,
			TaskCount: tasks.Count,
			UserCount: users.Count,
			closeFn:   client.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// NewMemoryRepositories returns empty in-memory repositories.
func NewMemoryRepositories() *Repositories {
	tasks := repository.NewTaskRepository()
	users := repository.NewUserRepository()
	return &Repositories{
		Tasks:     tasks,
		Users:     users,
		TaskCount: tasks.Count,
		UserCount: users.Count,
	}
}

// Close releases the store client, if any.
func (c *Container) Close() error {
	if c == nil || c.Repos == nil || c.Repos.closeFn == nil {
		return nil
	}
	return c.Repos.closeFn()
}
