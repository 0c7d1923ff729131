package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength is the maximum number of characters in a task title.
const MaxTitleLength = 100

// Record field names shared by the store adapters.
const (
	FieldID          = "id"
	FieldUserID      = "userId"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCompleted   = "completed"
	FieldCreatedAt   = "createdAt"
	FieldUpdatedAt   = "updatedAt"
	FieldEmail       = "email"
)

// Task represents a todo item owned by a user.
type Task struct {
	ID          string    `json:"id,omitempty"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskProps holds the input for NewTask. ID is empty until the task is
// persisted; zero timestamps default to the construction time.
type TaskProps struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskPatch lists the fields Update may change. Nil fields are left as is.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// NewTask validates props and returns a Task.
func NewTask(props TaskProps) (*Task, error) {
	userID, err := validateUserID(props.UserID)
	if err != nil {
		return nil, err
	}
	title, err := validateTitle(props.Title)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	createdAt := props.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := props.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}
	if updatedAt.Before(createdAt) {
		updatedAt = createdAt
	}

	return &Task{
		ID:          props.ID,
		UserID:      userID,
		Title:       title,
		Description: props.Description,
		Completed:   props.Completed,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Update applies patch and refreshes UpdatedAt, even when patch is empty.
// On a validation failure the task is left unchanged.
func (t *Task) Update(patch TaskPatch) error {
	if patch.Title != nil {
		title, err := validateTitle(*patch.Title)
		if err != nil {
			return err
		}
		t.Title = title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}

	t.UpdatedAt = time.Now()
	if t.UpdatedAt.Before(t.CreatedAt) {
		t.UpdatedAt = t.CreatedAt
	}
	return nil
}

// ToRecord returns the task as a storage record. The id is only present
// once the store has assigned one.
func (t *Task) ToRecord() map[string]any {
	rec := map[string]any{
		FieldUserID:      t.UserID,
		FieldTitle:       t.Title,
		FieldDescription: t.Description,
		FieldCompleted:   t.Completed,
		FieldCreatedAt:   t.CreatedAt,
		FieldUpdatedAt:   t.UpdatedAt,
	}
	if t.ID != "" {
		rec[FieldID] = t.ID
	}
	return rec
}

// TaskFromRecord rebuilds a Task from a stored record. Reads trust the
// store: userId and title are not re-validated. Missing timestamps
// default to now.
func TaskFromRecord(id string, rec map[string]any) *Task {
	now := time.Now()
	return &Task{
		ID:          id,
		UserID:      stringField(rec, FieldUserID),
		Title:       stringField(rec, FieldTitle),
		Description: stringField(rec, FieldDescription),
		Completed:   boolField(rec, FieldCompleted),
		CreatedAt:   timeField(rec, FieldCreatedAt, now),
		UpdatedAt:   timeField(rec, FieldUpdatedAt, now),
	}
}

func validateUserID(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrUserIDRequired
	}
	return userID, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

func stringField(rec map[string]any, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}

func boolField(rec map[string]any, key string) bool {
	if v, ok := rec[key].(bool); ok {
		return v
	}
	return false
}

func timeField(rec map[string]any, key string, fallback time.Time) time.Time {
	switch v := rec[key].(type) {
	case time.Time:
		if !v.IsZero() {
			return v
		}
	case *time.Time:
		if v != nil && !v.IsZero() {
			return *v
		}
	}
	return fallback
}
