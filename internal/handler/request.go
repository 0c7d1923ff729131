package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/hiroki-koketsu/go-task-tracker/internal/model"
)

const maxBodyBytes = 1 << 20

// CreateTaskRequest represents the request body for creating a task.
// Pointer fields distinguish a missing field from a zero value.
type CreateTaskRequest struct {
	UserID      *string `json:"userId"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// UpdateTaskRequest represents the request body for updating a task.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// EmailRequest is the body of both user endpoints.
type EmailRequest struct {
	Email *string `json:"email"`
}

// fieldErrors collects "<field>: <message>" entries.
type fieldErrors []string

func (fe *fieldErrors) add(field, message string) {
	*fe = append(*fe, field+": "+message)
}

func (fe fieldErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return model.Validation(strings.Join(fe, ", "))
}

// Validate checks the request and trims its string fields in place.
func (r *CreateTaskRequest) Validate() error {
	var fe fieldErrors

	switch {
	case r.UserID == nil:
		fe.add("userId", "User ID is required")
	case trimInPlace(r.UserID) == "":
		fe.add("userId", "User ID cannot be empty")
	}

	switch {
	case r.Title == nil:
		fe.add("title", "Title is required")
	default:
		checkTitle(&fe, r.Title)
	}

	if r.Description == nil {
		fe.add("description", "Description is required")
	} else {
		trimInPlace(r.Description)
	}

	if r.Completed == nil {
		fe.add("completed", "Completed status is required")
	}

	return fe.err()
}

// Validate checks the optional fields that are present and trims them in
// place.
func (r *UpdateTaskRequest) Validate() error {
	var fe fieldErrors

	if r.Title != nil {
		checkTitle(&fe, r.Title)
	}
	if r.Description != nil {
		trimInPlace(r.Description)
	}

	return fe.err()
}

// Normalize validates presence of the email and returns it trimmed and
// lower-cased. Syntax is checked by the User entity.
func (r *EmailRequest) Normalize() (string, error) {
	var fe fieldErrors

	switch {
	case r.Email == nil:
		fe.add("email", "Email is required")
	case strings.TrimSpace(*r.Email) == "":
		fe.add("email", "Invalid email format")
	}
	if err := fe.err(); err != nil {
		return "", err
	}
	return model.CanonicalEmail(*r.Email), nil
}

// pathID validates a trimmed, non-empty path parameter.
func pathID(field, label, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		var fe fieldErrors
		fe.add(field, label+" cannot be empty")
		return "", fe.err()
	}
	return value, nil
}

func checkTitle(fe *fieldErrors, title *string) {
	t := trimInPlace(title)
	if t == "" {
		fe.add("title", "Title cannot be empty")
		return
	}
	if utf8.RuneCountInString(t) > model.MaxTitleLength {
		fe.add("title", fmt.Sprintf("Title must be between 1 and %d characters", model.MaxTitleLength))
	}
}

func trimInPlace(s *string) string {
	*s = strings.TrimSpace(*s)
	return *s
}

// decodeJSON decodes the request body into dst. Malformed bodies and
// fields of the wrong type are reported as validation errors.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	err := dec.Decode(dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return model.Validation(fmt.Sprintf("%s: must be a %s", typeErr.Field, jsonTypeName(typeErr.Type.String())))
	}
	if errors.Is(err, io.EOF) {
		return model.Validation("request body is required")
	}
	return model.Validation("invalid request body")
}

func jsonTypeName(goType string) string {
	goType = strings.TrimPrefix(goType, "*")
	switch goType {
	case "bool":
		return "boolean"
	default:
		return goType
	}
}
