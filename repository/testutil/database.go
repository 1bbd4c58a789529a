package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"collector/database"
)

// TestDatabase wraps a containerized postgres instance with the schema applied
type TestDatabase struct {
	DB            *database.DB
	ConnectionURL string
}

// SetupTestDatabase starts a postgres container, applies all migrations and
// returns a connected pool. The container is torn down with the test.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("collector_test"),
		postgres.WithUsername("collector"),
		postgres.WithPassword("collector"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	connectionURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	require.NoError(t, database.MigrateURL(connectionURL), "failed to apply migrations")

	db, err := database.NewConnection(ctx, connectionURL)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(db.Close)

	return &TestDatabase{DB: db, ConnectionURL: connectionURL}
}
