package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hiroki-koketsu/go-task-tracker/internal/model"
)

var tracer = otel.Tracer("github.com/hiroki-koketsu/go-task-tracker/internal/repository/firestore")

var errTaskIDRequired = errors.New("Task ID is required for update")

// TaskRepositoryFS stores tasks in the "tasks" collection. Document IDs
// are assigned by Firestore.
type TaskRepositoryFS struct {
	Client *firestore.Client
}

var _ model.TaskRepository = (*TaskRepositoryFS)(nil)

func NewTaskRepositoryFS(client *firestore.Client) *TaskRepositoryFS {
	return &TaskRepositoryFS{Client: client}
}

func (r *TaskRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(TasksCollection)
}

// doc returns nil for ids that are not a valid document name.
func (r *TaskRepositoryFS) doc(id string) *firestore.DocumentRef {
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "/") {
		return nil
	}
	return r.col().Doc(id)
}

// FindByUserID needs a composite index on (userId ASC, createdAt DESC).
func (r *TaskRepositoryFS) FindByUserID(ctx context.Context, userID string) ([]*model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepositoryFS.FindByUserID",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	it := r.col().
		Where(model.FieldUserID, "==", userID).
		OrderBy(model.FieldCreatedAt, firestore.Desc).
		Documents(ctx)
	defer it.Stop()

	tasks := make([]*model.Task, 0)
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			span.RecordError(err)
			return nil, model.Internal("Failed to find tasks by user", err)
		}
		tasks = append(tasks, model.TaskFromRecord(snap.Ref.ID, snap.Data()))
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))
	return tasks, nil
}

func (r *TaskRepositoryFS) FindByID(ctx context.Context, id string) (*model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepositoryFS.FindByID",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	ref := r.doc(id)
	if ref == nil {
		return nil, nil
	}

	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		span.SetAttributes(attribute.Bool("task.found", false))
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, model.Internal("Failed to find task by ID", err)
	}

	span.SetAttributes(attribute.Bool("task.found", true))
	return model.TaskFromRecord(snap.Ref.ID, snap.Data()), nil
}

// Create adds the task and returns the stored document.
func (r *TaskRepositoryFS) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepositoryFS.Create")
	defer span.End()

	rec := task.ToRecord()
	delete(rec, model.FieldID)

	ref, _, err := r.col().Add(ctx, rec)
	if err != nil {
		span.RecordError(err)
		return nil, model.Internal("Failed to create task", err)
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, model.Internal("Failed to create task", err)
	}

	span.SetAttributes(attribute.String("task.id", snap.Ref.ID))
	return model.TaskFromRecord(snap.Ref.ID, snap.Data()), nil
}

// Update writes the task's fields to its existing document and returns
// the stored state.
func (r *TaskRepositoryFS) Update(ctx context.Context, task *model.Task) (*model.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskRepositoryFS.Update",
		trace.WithAttributes(attribute.String("task.id", task.ID)),
	)
	defer span.End()

	ref := r.doc(task.ID)
	if ref == nil {
		return nil, model.Internal("Failed to update task", errTaskIDRequired)
	}

	if err := r.ensureExists(ctx, ref); err != nil {
		span.RecordError(err)
		return nil, wrapErr("Failed to update task", err)
	}

	rec := task.ToRecord()
	delete(rec, model.FieldID)

	if _, err := ref.Set(ctx, rec, firestore.MergeAll); err != nil {
		span.RecordError(err)
		return nil, model.Internal("Failed to update task", err)
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, model.Internal("Failed to update task", err)
	}
	return model.TaskFromRecord(snap.Ref.ID, snap.Data()), nil
}

// Delete removes the task. A missing document is reported as
// ErrTaskNotFound.
func (r *TaskRepositoryFS) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "TaskRepositoryFS.Delete",
		trace.WithAttributes(attribute.String("task.id", id)),
	)
	defer span.End()

	ref := r.doc(id)
	if ref == nil {
		return model.ErrTaskNotFound
	}

	if err := r.ensureExists(ctx, ref); err != nil {
		return wrapErr("Failed to delete task", err)
	}

	if _, err := ref.Delete(ctx); err != nil {
		span.RecordError(err)
		return model.Internal("Failed to delete task", err)
	}
	return nil
}

// Count returns the number of task documents.
func (r *TaskRepositoryFS) Count(ctx context.Context) (int64, error) {
	return countDocuments(ctx, r.col())
}

func (r *TaskRepositoryFS) ensureExists(ctx context.Context, ref *firestore.DocumentRef) error {
	_, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return model.ErrTaskNotFound
	}
	return err
}

func countDocuments(ctx context.Context, col *firestore.CollectionRef) (int64, error) {
	res, err := col.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, err
	}

	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, errors.New("unexpected aggregation result")
	}
	return v.GetIntegerValue(), nil
}
