// Package firestore implements the task and user repositories on Cloud
// Firestore.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/hiroki-koketsu/go-task-tracker/internal/model"
)

// Collection names.
const (
	TasksCollection = "tasks"
	UsersCollection = "users"
)

// NewClient initializes a Firebase app and returns its Firestore client.
// An empty credentialsFile falls back to Application Default Credentials.
// FIRESTORE_EMULATOR_HOST is honoured by the underlying client.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return client, nil
}

// wrapErr passes domain errors through and wraps everything else as an
// internal error.
func wrapErr(message string, err error) error {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return model.Internal(message, err)
}
