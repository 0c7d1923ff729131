package di

import (
	"context"
	"testing"

	"github.com/hiroki-koketsu/go-task-tracker/internal/config"
	"github.com/hiroki-koketsu/go-task-tracker/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Memory(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, &config.Config{StoreDriver: config.StoreMemory})
	require.NoError(t, err)
	defer c.Close()

	task, err := c.CreateTask.Execute(ctx, usecase.CreateTaskInput{UserID: "u1", Title: "t"})
	require.NoError(t, err)

	tasks, err := c.GetTasksByUser.Execute(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)

	n, err := c.Repos.TaskCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = c.CreateUser.Execute(ctx, "a@b.co")
	require.NoError(t, err)
	n, err = c.Repos.UserCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), &config.Config{StoreDriver: "postgres"})
	assert.EqualError(t, err, `unknown store driver "postgres"`)
}

func TestContainer_CloseWithoutClient(t *testing.T) {
	assert.NoError(t, NewWithRepositories(NewMemoryRepositories()).Close())
	var c *Container
	assert.NoError(t, c.Close())
}
