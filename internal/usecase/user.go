package usecase

import (
	"context"

	"github.com/hiroki-koketsu/go-task-tracker/internal/model"
	"go.opentelemetry.io/otel/attribute"
)

// CreateUser registers a user. Email uniqueness is checked by the
// repository; two concurrent creates for the same email may both succeed.
type CreateUser struct {
	repo model.UserRepository
}

func NewCreateUser(repo model.UserRepository) *CreateUser {
	return &CreateUser{repo: repo}
}

func (uc *CreateUser) Execute(ctx context.Context, email string) (*model.User, error) {
	ctx, span := tracer.Start(ctx, "CreateUser.Execute")
	defer span.End()

	user, err := model.NewUser(model.UserProps{Email: email})
	if err != nil {
		return nil, err
	}

	return uc.repo.Create(ctx, user)
}

// GetUserByEmail looks a user up by email.
type GetUserByEmail struct {
	repo model.UserRepository
}

func NewGetUserByEmail(repo model.UserRepository) *GetUserByEmail {
	return &GetUserByEmail{repo: repo}
}

// Execute returns nil and no error when no user has the email.
func (uc *GetUserByEmail) Execute(ctx context.Context, email string) (*model.User, error) {
	ctx, span := tracer.Start(ctx, "GetUserByEmail.Execute")
	defer span.End()

	user, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Bool("user.found", user != nil))
	return user, nil
}
