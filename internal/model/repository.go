package model

import "context"

// TaskRepository is the persistence capability set the task use cases
// depend on.
type TaskRepository interface {
	// FindByUserID returns the user's tasks, newest first.
	FindByUserID(ctx context.Context, userID string) ([]*Task, error)
	// FindByID returns nil and no error when the task does not exist.
	FindByID(ctx context.Context, id string) (*Task, error)
	// Create persists a new task and returns it with its assigned id.
	Create(ctx context.Context, task *Task) (*Task, error)
	// Update stores task and returns the stored state. ErrTaskNotFound
	// if the task no longer exists.
	Update(ctx context.Context, task *Task) (*Task, error)
	// Delete removes the task. Deleting a missing id returns ErrTaskNotFound.
	Delete(ctx context.Context, id string) error
}

// UserRepository is the persistence capability set the user use cases
// depend on.
type UserRepository interface {
	// FindByEmail returns nil and no error when no user has the email.
	FindByEmail(ctx context.Context, email string) (*User, error)
	// Create persists a new user. ErrUserExists if the canonical email is
	// already registered.
	Create(ctx context.Context, user *User) (*User, error)
	Delete(ctx context.Context, id string) error
}
