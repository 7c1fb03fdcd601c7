package database

import (
	"context"
	"fmt"
	"slices"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Driver names accepted by Open. They are also the identifiers the ledger
// reads back from the handle to pick its SQL dialect.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
)

// maxOpenConns keeps every statement on one session; the ledger does no pooling.
const maxOpenConns = 1

// SupportedDrivers returns the accepted driver names in sorted order.
func SupportedDrivers() []string {
	drivers := []string{DriverSQLite, DriverMySQL, DriverPgx, DriverPostgres}
	slices.Sort(drivers)

	return drivers
}

// Open connects to the database identified by driver and dsn and pings it.
// The caller owns the returned handle and must close it.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	if !slices.Contains(SupportedDrivers(), driver) {
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnsupportedDriver, driver, SupportedDrivers())
	}

	if dsn == "" {
		return nil, fmt.Errorf("%w: empty connection string", ErrInvalidDatabaseURL)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDatabaseURL, err)
	}

	db.SetMaxOpenConns(maxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return db, nil
}
