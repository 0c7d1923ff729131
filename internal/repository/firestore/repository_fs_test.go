package firestore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiroki-koketsu/go-task-tracker/internal/model"
)

// newEmulatorClient connects to the Firestore emulator. Tests are skipped
// when FIRESTORE_EMULATOR_HOST is not set.
func newEmulatorClient(t *testing.T) *TaskRepositoryFS {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := NewClient(ctx, "task-tracker-test", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewTaskRepositoryFS(client)
}

func TestTaskRepositoryFS_Lifecycle(t *testing.T) {
	repo := newEmulatorClient(t)
	ctx := context.Background()
	userID := "user-" + uuid.NewString()

	base := time.Now().Add(-time.Hour).Truncate(time.Millisecond)
	var ids []string
	for i := 0; i < 3; i++ {
		task, err := model.NewTask(model.TaskProps{
			UserID:    userID,
			Title:     fmt.Sprintf("task %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)

		created, err := repo.Create(ctx, task)
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.Equal(t, task.Title, created.Title)
		ids = append(ids, created.ID)
	}

	tasks, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "task 2", tasks[0].Title)
	assert.Equal(t, "task 0", tasks[2].Title)

	found, err := repo.FindByID(ctx, ids[0])
	require.NoError(t, err)
	require.NotNil(t, found)

	require.NoError(t, found.Update(model.TaskPatch{Completed: func() *bool { b := true; return &b }()}))
	updated, err := repo.Update(ctx, found)
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	require.NoError(t, repo.Delete(ctx, ids[0]))
	missing, err := repo.FindByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.ErrorIs(t, repo.Delete(ctx, ids[0]), model.ErrTaskNotFound)
	_, err = repo.Update(ctx, found)
	assert.ErrorIs(t, err, model.ErrTaskNotFound)
}

func TestTaskRepositoryFS_InvalidIDs(t *testing.T) {
	repo := newEmulatorClient(t)
	ctx := context.Background()

	found, err := repo.FindByID(ctx, "")
	assert.NoError(t, err)
	assert.Nil(t, found)

	assert.ErrorIs(t, repo.Delete(ctx, "  "), model.ErrTaskNotFound)

	_, err = repo.Update(ctx, &model.Task{UserID: "u1", Title: "t"})
	assert.ErrorIs(t, err, model.ErrInternal)
}

func TestUserRepositoryFS_CreateConflict(t *testing.T) {
	tasks := newEmulatorClient(t)
	repo := NewUserRepositoryFS(tasks.Client)
	ctx := context.Background()

	email := uuid.NewString() + "@example.com"
	user, err := model.NewUser(model.UserProps{Email: email})
	require.NoError(t, err)

	created, err := repo.Create(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	found, err := repo.FindByEmail(ctx, "  "+email)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.Create(ctx, user)
	assert.ErrorIs(t, err, model.ErrUserExists)

	require.NoError(t, repo.Delete(ctx, created.ID))
	found, err = repo.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.Nil(t, found)
}
