package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/hiroki-koketsu/go-task-tracker/internal/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// UserRepository provides an in-memory storage for users.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]model.User
}

var _ model.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[string]model.User),
	}
}

// FindByEmail matches the canonical form of email. It returns nil when no
// user has it.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	_, span := tracer.Start(ctx, "UserRepository.FindByEmail")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.findByEmailLocked(model.CanonicalEmail(email))
	span.SetAttributes(attribute.Bool("user.found", ok))
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// Create stores user under a new ID unless its email is already taken.
func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	_, span := tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.findByEmailLocked(model.CanonicalEmail(user.Email)); exists {
		return nil, model.ErrUserExists
	}

	u := *user
	u.ID = uuid.New().String()
	r.users[u.ID] = u

	span.SetAttributes(attribute.String("user.id", u.ID))
	return &u, nil
}

// Delete removes a user. Deleting a missing id is a no-op.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	_, span := tracer.Start(ctx, "UserRepository.Delete",
		trace.WithAttributes(attribute.String("user.id", id)),
	)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}

// Count returns the current number of users.
func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *UserRepository) findByEmailLocked(email string) (model.User, bool) {
	for _, u := range r.users {
		if model.CanonicalEmail(u.Email) == email {
			return u, true
		}
	}
	return model.User{}, false
}
