package usecase

import (
	"context"

	"github.com/hiroki-koketsu/go-task-tracker/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/hiroki-koketsu/go-task-tracker/internal/usecase")

// CreateTaskInput is the input for CreateTask.
type CreateTaskInput struct {
	UserID      string
	Title       string
	Description string
	Completed   bool
}

// UpdateTaskInput is the partial update applied by UpdateTask. Nil fields
// are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Completed   *bool
}

// CreateTask validates and persists a new task.
type CreateTask struct {
	repo model.TaskRepository
}

func NewCreateTask(repo model.TaskRepository) *CreateTask {
	return &CreateTask{repo: repo}
}

// Execute returns the persisted task with its store-assigned id.
func (uc *CreateTask) Execute(ctx context.Context, in CreateTaskInput) (*model.Task, error) {
	ctx, span := tracer.Start(ctx, "CreateTask.Execute",
		trace.WithAttributes(attribute.String("user.id", in.UserID)),
	)
	defer span.End()

	task, err := model.NewTask(model.TaskProps{
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
	})
	if err != nil {
		return nil, err
	}

	return uc.repo.Create(ctx, task)
}

// UpdateTask applies a partial update to an existing task. The read and
// the write are not atomic; concurrent updates are last-write-wins.
type UpdateTask struct {
	repo model.TaskRepository
}

func NewUpdateTask(repo model.TaskRepository) *UpdateTask {
	return &UpdateTask{repo: repo}
}

func (uc *UpdateTask) Execute(ctx context.Context, id string, in UpdateTaskInput) (*model.Task, error) {
	ctx, span := tracer.Start(ctx, "UpdateTask.Execute",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	task, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		span.SetAttributes(attribute.Bool("task.found", false))
		return nil, model.ErrTaskNotFound
	}

	if err := task.Update(model.TaskPatch{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
	}); err != nil {
		return nil, err
	}

	return uc.repo.Update(ctx, task)
}

// DeleteTask removes a task. Deleting a missing task is an error.
type DeleteTask struct {
	repo model.TaskRepository
}

func NewDeleteTask(repo model.TaskRepository) *DeleteTask {
	return &DeleteTask{repo: repo}
}

func (uc *DeleteTask) Execute(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "DeleteTask.Execute",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	return uc.repo.Delete(ctx, id)
}

// GetTasksByUser lists a user's tasks, newest first.
type GetTasksByUser struct {
	repo model.TaskRepository
}

func NewGetTasksByUser(repo model.TaskRepository) *GetTasksByUser {
	return &GetTasksByUser{repo: repo}
}

// Execute returns an empty slice, not an error, when the user has no tasks.
func (uc *GetTasksByUser) Execute(ctx context.Context, userID string) ([]*model.Task, error) {
	ctx, span := tracer.Start(ctx, "GetTasksByUser.Execute",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	tasks, err := uc.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*model.Task{}
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks, nil
}
