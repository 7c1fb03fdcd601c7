//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aqasim81/migration-ledger/internal/database"
)

const (
	postgresImage = "postgres:16-alpine"
	mysqlImage    = "mysql:8.4"
	testDB        = "ledger_test"
	testUser      = "ledger"
	testPassword  = "ledger"
)

// startContainer starts req and terminates it when the test completes.
func startContainer(t *testing.T, req testcontainers.ContainerRequest) (string, string) {
	t.Helper()

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, nat.Port(req.ExposedPorts[0]))
	require.NoError(t, err)

	return host, port.Port()
}

// SetupPostgresDSN starts a PostgreSQL 16 container and returns a URL-form DSN
// usable by both the pgx and postgres drivers.
func SetupPostgresDSN(t *testing.T) string {
	t.Helper()

	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       testDB,
			"POSTGRES_USER":     testUser,
			"POSTGRES_PASSWORD": testPassword,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	})

	return "postgres://" + testUser + ":" + testPassword + "@" + host + ":" + port + "/" + testDB + "?sslmode=disable"
}

// SetupMySQLDSN starts a MySQL 8.4 container and returns a go-sql-driver DSN.
func SetupMySQLDSN(t *testing.T) string {
	t.Helper()

	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        mysqlImage,
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": testPassword,
			"MYSQL_DATABASE":      testDB,
			"MYSQL_USER":          testUser,
			"MYSQL_PASSWORD":      testPassword,
		},
		WaitingFor: wait.ForListeningPort("3306/tcp").WithStartupTimeout(2 * time.Minute),
	})

	return testUser + ":" + testPassword + "@tcp(" + host + ":" + port + ")/" + testDB
}

// OpenDB opens driver/dsn through database.Open, retrying while the server
// finishes starting, and closes the handle when the test completes.
func OpenDB(t *testing.T, driver, dsn string) *sqlx.DB {
	t.Helper()

	var db *sqlx.DB

	require.Eventually(t, func() bool {
		var err error

		db, err = database.Open(context.Background(), driver, dsn)

		return err == nil
	}, 60*time.Second, time.Second)

	t.Cleanup(func() { _ = db.Close() })

	return db
}
