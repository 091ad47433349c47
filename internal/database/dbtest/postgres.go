// Package dbtest starts a throwaway Postgres for integration tests.
package dbtest

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Tomlord1122/todo-app/internal/database"
	"github.com/Tomlord1122/todo-app/internal/domain"
)

const (
	image    = "postgres:16-alpine"
	dbName   = "todos"
	username = "todo"
	password = "todo"
)

// New starts a Postgres container, connects to it and creates the schema.
// The container and pool are released when the test finishes. Skipped
// under -short.
func New(t *testing.T) database.Service {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Postgres integration test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, image,
		postgres.WithDatabase(dbName),
		postgres.WithUsername(username),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	svc, err := database.New(database.Config{DSN: dsn, LogLevel: "silent"}, Logger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	require.NoError(t, svc.GetDB().AutoMigrate(&domain.User{}, &domain.Todo{}))
	return svc
}

// SeedUser inserts a user row so todos can reference it.
func SeedUser(t *testing.T, svc database.Service, username string) domain.User {
	t.Helper()
	user := domain.User{Username: username, Email: username + "@example.com", IsActive: true}
	require.NoError(t, svc.GetDB().Create(&user).Error)
	return user
}

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
