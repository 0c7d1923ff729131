package usecase

import (
	"context"

	"github.com/hiroki-koketsu/go-task-tracker/internal/model"
)

// fakeTaskRepository records calls and returns canned results.
type fakeTaskRepository struct {
	tasks map[string]*model.Task
	err   error

	createCalls []*model.Task
	updateCalls []*model.Task
	deleteCalls []string
}

func newFakeTaskRepository() *fakeTaskRepository {
	return &fakeTaskRepository{tasks: make(map[string]*model.Task)}
}

func (f *fakeTaskRepository) FindByUserID(_ context.Context, userID string) ([]*model.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Task
	for _, t := range f.tasks {
		if t.UserID == userID {
			c := *t
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeTaskRepository) FindByID(_ context.Context, id string) (*model.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.tasks[id]
	if !ok {
		return nil, nil
	}
	c := *t
	return &c, nil
}

func (f *fakeTaskRepository) Create(_ context.Context, task *model.Task) (*model.Task, error) {
	f.createCalls = append(f.createCalls, task)
	if f.err != nil {
		return nil, f.err
	}
	c := *task
	c.ID = "task-123"
	f.tasks[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeTaskRepository) Update(_ context.Context, task *model.Task) (*model.Task, error) {
	f.updateCalls = append(f.updateCalls, task)
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.tasks[task.ID]; !ok {
		return nil, model.ErrTaskNotFound
	}
	c := *task
	f.tasks[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeTaskRepository) Delete(_ context.Context, id string) error {
	f.deleteCalls = append(f.deleteCalls, id)
	if f.err != nil {
		return f.err
	}
	if _, ok := f.tasks[id]; !ok {
		return model.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

type fakeUserRepository struct {
	users map[string]*model.User
	err   error

	createCalls int
	writes      int
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*model.User)}
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[model.CanonicalEmail(email)]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (f *fakeUserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	f.createCalls++
	existing, err := f.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.ErrUserExists
	}
	f.writes++
	c := *user
	c.ID = "user-123"
	f.users[c.Email] = &c
	out := c
	return &out, nil
}

func (f *fakeUserRepository) Delete(_ context.Context, id string) error {
	for email, u := range f.users {
		if u.ID == id {
			delete(f.users, email)
		}
	}
	return nil
}
