// Package testutil starts throwaway backing services for storage tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/focusquest/internal/config"
	"github.com/cory-johannsen/focusquest/internal/storage/postgres"
)

const (
	pgImage    = "postgres:16-alpine"
	pgUser     = "focusquest"
	pgPassword = "focusquest"
	pgDatabase = "focusquest_test"
)

// StartPostgres runs a disposable PostgreSQL server for the test and returns
// its connection settings. Docker is required; the test is skipped in -short
// mode.
//
// Postcondition: the container is terminated when the test ends.
func StartPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container skipped in short mode")
	}
	ctx := context.Background()
	start := time.Now()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        pgImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDatabase,
			},
			// The entrypoint restarts the server once after init.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(45 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting %s: %v", pgImage, err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	t.Logf("%s ready at %s:%s [%s]", pgImage, host, port.Port(), time.Since(start))

	return config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            pgUser,
		Password:        pgPassword,
		Name:            pgDatabase,
		SSLMode:         "disable",
		MaxConns:        8,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}
}

// NewPool starts PostgreSQL, migrates it to the latest schema, and returns a
// connected pool that is closed when the test ends.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	cfg := StartPostgres(t)

	res, err := postgres.Migrate(cfg.DSN(), "up", 0)
	if err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	t.Logf("schema at version %d", res.Version)

	pool, err := postgres.NewPool(context.Background(), cfg)
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool.DB()
}
