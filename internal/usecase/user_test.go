package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/hiroki-koketsu/go-task-tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_Execute(t *testing.T) {
	repo := newFakeUserRepository()

	user, err := NewCreateUser(repo).Execute(context.Background(), "Jane@Example.com")
	require.NoError(t, err)

	assert.Equal(t, "user-123", user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, 1, repo.writes)
}

func TestCreateUser_InvalidEmail(t *testing.T) {
	repo := newFakeUserRepository()

	_, err := NewCreateUser(repo).Execute(context.Background(), "not-an-email")
	assert.ErrorIs(t, err, model.ErrInvalidEmail)
	assert.Zero(t, repo.createCalls)
}

func TestCreateUser_Conflict(t *testing.T) {
	repo := newFakeUserRepository()
	uc := NewCreateUser(repo)

	_, err := uc.Execute(context.Background(), "jane@example.com")
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), "JANE@example.com")
	assert.ErrorIs(t, err, model.ErrUserExists)
	assert.ErrorIs(t, err, model.ErrConflict)
	assert.Equal(t, 1, repo.writes)
}

func TestGetUserByEmail_Execute(t *testing.T) {
	repo := newFakeUserRepository()
	repo.users["jane@example.com"] = &model.User{ID: "user-1", Email: "jane@example.com"}
	uc := NewGetUserByEmail(repo)

	user, err := uc.Execute(context.Background(), "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "user-1", user.ID)
}

func TestGetUserByEmail_NotFoundIsNotAnError(t *testing.T) {
	user, err := NewGetUserByEmail(newFakeUserRepository()).Execute(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestGetUserByEmail_PropagatesErrors(t *testing.T) {
	repo := newFakeUserRepository()
	repo.err = errors.New("boom")

	_, err := NewGetUserByEmail(repo).Execute(context.Background(), "jane@example.com")
	assert.EqualError(t, err, "boom")
}
