package firestore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/iterator"

	"github.com/hiroki-koketsu/go-task-tracker/internal/model"
)

// UserRepositoryFS stores users in the "users" collection.
//
// Uniqueness of email is checked with a query before the insert. Firestore
// has no unique constraints, so two concurrent creates may both succeed.
type UserRepositoryFS struct {
	Client *firestore.Client
}

var _ model.UserRepository = (*UserRepositoryFS)(nil)

func NewUserRepositoryFS(client *firestore.Client) *UserRepositoryFS {
	return &UserRepositoryFS{Client: client}
}

func (r *UserRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(UsersCollection)
}

func (r *UserRepositoryFS) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepositoryFS.FindByEmail")
	defer span.End()

	it := r.col().
		Where(model.FieldEmail, "==", model.CanonicalEmail(email)).
		Limit(1).
		Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if errors.Is(err, iterator.Done) {
		span.SetAttributes(attribute.Bool("user.found", false))
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, model.Internal("Failed to find user by email", err)
	}

	span.SetAttributes(attribute.Bool("user.found", true))
	return model.UserFromRecord(snap.Ref.ID, snap.Data()), nil
}

// Create returns ErrUserExists when a user with the same email exists.
func (r *UserRepositoryFS) Create(ctx context.Context, user *model.User) (*model.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepositoryFS.Create")
	defer span.End()

	existing, err := r.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, wrapErr("Failed to create user", err)
	}
	if existing != nil {
		return nil, model.ErrUserExists
	}

	rec := user.ToRecord()
	delete(rec, model.FieldID)

	ref, _, err := r.col().Add(ctx, rec)
	if err != nil {
		span.RecordError(err)
		return nil, model.Internal("Failed to create user", err)
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, model.Internal("Failed to create user", err)
	}

	span.SetAttributes(attribute.String("user.id", snap.Ref.ID))
	return model.UserFromRecord(snap.Ref.ID, snap.Data()), nil
}

// Delete removes the user document. Deleting a missing user succeeds.
func (r *UserRepositoryFS) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "UserRepositoryFS.Delete",
		trace.WithAttributes(attribute.String("user.id", id)),
	)
	defer span.End()

	if id == "" {
		return nil
	}

	if _, err := r.col().Doc(id).Delete(ctx); err != nil {
		span.RecordError(err)
		return model.Internal("Failed to delete user", err)
	}
	return nil
}

// Count returns the number of user documents.
func (r *UserRepositoryFS) Count(ctx context.Context) (int64, error) {
	return countDocuments(ctx, r.col())
}
