// Package ledger records which schema migrations have been applied by
// reading and writing rows of a single-column tracking table.
//
// A Ledger borrows an open connection; it never closes it, never starts
// transactions, and never retries. Each operation is one statement.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
)

// Conn is the connection capability a Ledger needs. *sqlx.DB and *sqlx.Tx satisfy it.
type Conn interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	DriverName() string
	Rebind(query string) string
}

// tableNamePattern restricts ledger table names to plain SQL identifiers.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`) //nolint:gochecknoglobals // compiled once

// Ledger tracks applied migration versions in one table.
type Ledger struct {
	conn    Conn
	table   string
	driver  string
	dialect Dialect
}

// New creates a Ledger for table on conn. The driver identifier is read once
// and fixes the dialect for the life of the Ledger.
func New(conn Conn, table string) (*Ledger, error) {
	if conn == nil {
		return nil, ErrNilConn
	}

	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTableName, table)
	}

	driver := conn.DriverName()

	return &Ledger{
		conn:    conn,
		table:   table,
		driver:  driver,
		dialect: DialectFor(driver),
	}, nil
}

// Table returns the ledger table name.
func (l *Ledger) Table() string { return l.table }

// Driver returns the driver identifier read at construction.
func (l *Ledger) Driver() string { return l.driver }

// Dialect returns the selected dialect.
func (l *Ledger) Dialect() Dialect { return l.dialect }

// Query returns the statement of the given kind, with bind parameters in the
// connection's native placeholder style.
func (l *Ledger) Query(kind QueryKind) (string, error) {
	q, err := l.dialect.Render(kind, l.table)
	if err != nil {
		return "", err
	}

	return l.conn.Rebind(q), nil
}

// ListApplied returns every recorded version in ascending string order.
// The result is empty, never nil, when nothing has been applied.
func (l *Ledger) ListApplied(ctx context.Context) ([]string, error) {
	q, err := l.Query(KindFetchAll)
	if err != nil {
		return nil, err
	}

	versions := []string{}
	if err := l.conn.SelectContext(ctx, &versions, q); err != nil {
		return nil, fmt.Errorf("%w: listing applied versions from %s: %w", ErrQueryExecution, l.table, err)
	}

	return versions, nil
}

// MarkApplied records version as applied. An already-recorded version is
// inserted again without complaint.
func (l *Ledger) MarkApplied(ctx context.Context, version string) error {
	return l.exec(ctx, KindUp, "recording applied version", version)
}

// MarkReverted deletes every row for version. Deleting a version that was
// never recorded succeeds.
func (l *Ledger) MarkReverted(ctx context.Context, version string) error {
	return l.exec(ctx, KindDown, "removing reverted version", version)
}

// HasLedger reports whether the ledger table exists. Table names are
// compared exactly as the engine returns them.
func (l *Ledger) HasLedger(ctx context.Context) (bool, error) {
	q, err := l.Query(KindHasSchema)
	if err != nil {
		return false, err
	}

	rows, err := l.conn.QueryContext(ctx, q)
	if err != nil {
		return false, fmt.Errorf("%w: listing tables: %w", ErrQueryExecution, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, fmt.Errorf("%w: scanning table name: %w", ErrQueryExecution, err)
		}

		if name == l.table {
			return true, nil
		}
	}

	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("%w: listing tables: %w", ErrQueryExecution, err)
	}

	return false, nil
}

// CreateLedger creates the ledger table. It fails if the table already exists;
// call HasLedger first or use EnsureLedger.
func (l *Ledger) CreateLedger(ctx context.Context) error {
	q, err := l.Query(KindCreateSchema)
	if err != nil {
		return err
	}

	if _, err := l.conn.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("%w: creating table %s: %w", ErrQueryExecution, l.table, err)
	}

	return nil
}

// EnsureLedger creates the ledger table unless it already exists and reports
// whether it created it. The check and the create are separate statements.
func (l *Ledger) EnsureLedger(ctx context.Context) (bool, error) {
	exists, err := l.HasLedger(ctx)
	if err != nil {
		return false, err
	}

	if exists {
		return false, nil
	}

	if err := l.CreateLedger(ctx); err != nil {
		return false, err
	}

	return true, nil
}

func (l *Ledger) exec(ctx context.Context, kind QueryKind, action, version string) error {
	q, err := l.Query(kind)
	if err != nil {
		return err
	}

	if _, err := l.conn.ExecContext(ctx, q, version); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrQueryExecution, action, version, err)
	}

	return nil
}
