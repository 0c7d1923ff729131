package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/hiroki-koketsu/go-task-tracker/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/hiroki-koketsu/go-task-tracker/internal/repository")

type storedTask struct {
	task model.Task
	seq  uint64
}

// TaskRepository provides an in-memory storage for tasks. It stores
// copies, so callers never share state with the store.
type TaskRepository struct {
	mu    sync.RWMutex
	seq   uint64
	tasks map[string]*storedTask
}

var _ model.TaskRepository = (*TaskRepository)(nil)

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{
		tasks: make(map[string]*storedTask),
	}
}

// FindByUserID returns the user's tasks ordered by creation time, newest
// first. Tasks created at the same instant keep reverse insertion order.
func (r *TaskRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Task, error) {
	_, span := tracer.Start(ctx, "TaskRepository.FindByUserID",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	r.mu.RLock()
	matched := make([]*storedTask, 0)
	for _, st := range r.tasks {
		if st.task.UserID == userID {
			matched = append(matched, st)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.task.CreatedAt.Equal(b.task.CreatedAt) {
			return a.task.CreatedAt.After(b.task.CreatedAt)
		}
		return a.seq > b.seq
	})

	tasks := make([]*model.Task, 0, len(matched))
	for _, st := range matched {
		t := st.task
		tasks = append(tasks, &t)
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks, nil
}

// FindByID retrieves a task by its ID, or nil if it does not exist.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	_, span := tracer.Start(ctx, "TaskRepository.FindByID",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.tasks[id]
	if !ok {
		span.SetAttributes(attribute.Bool("task.found", false))
		return nil, nil
	}

	span.SetAttributes(attribute.Bool("task.found", true))
	t := st.task
	return &t, nil
}

// Create stores task under a new ID.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	_, span := tracer.Start(ctx, "TaskRepository.Create",
		trace.WithAttributes(attribute.String("task.title", task.Title)),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	st := &storedTask{task: *task, seq: r.seq}
	st.task.ID = uuid.New().String()
	r.tasks[st.task.ID] = st

	span.SetAttributes(attribute.String("task.id", st.task.ID))
	t := st.task
	return &t, nil
}

// Update replaces the stored fields of an existing task.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) (*model.Task, error) {
	_, span := tracer.Start(ctx, "TaskRepository.Update",
		trace.WithAttributes(attribute.String("task.id", task.ID)),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.tasks[task.ID]
	if !ok {
		span.SetAttributes(attribute.Bool("task.found", false))
		return nil, model.ErrTaskNotFound
	}

	st.task = *task

	span.SetAttributes(attribute.Bool("task.found", true))
	t := st.task
	return &t, nil
}

// Delete removes a task from the repository.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	_, span := tracer.Start(ctx, "TaskRepository.Delete",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		span.SetAttributes(attribute.Bool("task.found", false))
		return model.ErrTaskNotFound
	}

	delete(r.tasks, id)
	span.SetAttributes(attribute.Bool("task.found", true))
	return nil
}

// Count returns the current number of tasks.
func (r *TaskRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.tasks)), nil
}
