package model

import (
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User owns tasks. Users are never updated once created.
type User struct {
	ID        string    `json:"id,omitempty"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserProps holds the input for NewUser.
type UserProps struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// NewUser validates the email and returns a User holding it in canonical
// (trimmed, lower-case) form.
func NewUser(props UserProps) (*User, error) {
	if !emailPattern.MatchString(props.Email) {
		return nil, ErrInvalidEmail
	}

	createdAt := props.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return &User{
		ID:        props.ID,
		Email:     CanonicalEmail(props.Email),
		CreatedAt: createdAt,
	}, nil
}

// CanonicalEmail returns email trimmed and lower-cased, the form used for
// storage and lookups.
func CanonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ToRecord returns the user as a storage record.
func (u *User) ToRecord() map[string]any {
	rec := map[string]any{
		FieldEmail:     u.Email,
		FieldCreatedAt: u.CreatedAt,
	}
	if u.ID != "" {
		rec[FieldID] = u.ID
	}
	return rec
}

// UserFromRecord rebuilds a User from a stored record without
// re-validating the email.
func UserFromRecord(id string, rec map[string]any) *User {
	return &User{
		ID:        id,
		Email:     stringField(rec, FieldEmail),
		CreatedAt: timeField(rec, FieldCreatedAt, time.Now()),
	}
}
