package ledger

import (
	"fmt"
	"strings"
)

// QueryKind names one of the statements a Dialect provides.
type QueryKind string

// Query kinds understood by every dialect.
const (
	KindFetchAll     QueryKind = "fetchAll"
	KindUp           QueryKind = "up"
	KindDown         QueryKind = "down"
	KindHasSchema    QueryKind = "hasSchema"
	KindCreateSchema QueryKind = "createSchema"
)

// Dialect variants.
const (
	DialectSQLite  = "sqlite"
	DialectDefault = "default"
)

// postgresTableListing replaces SHOW TABLES, which PostgreSQL does not support.
const postgresTableListing = `SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = current_schema()`

// validatedDrivers are the driver identifiers with a known-good dialect.
// Anything else still gets the default dialect.
var validatedDrivers = map[string]bool{ //nolint:gochecknoglobals // read-only lookup table
	"sqlite":   true,
	"mysql":    true,
	"pgsql":    true,
	"pgx":      true,
	"postgres": true,
}

// postgresDrivers are driver identifiers that talk to PostgreSQL.
var postgresDrivers = map[string]bool{ //nolint:gochecknoglobals // read-only lookup table
	"pgsql":    true,
	"pgx":      true,
	"postgres": true,
}

// Dialect holds the ledger statement templates for one family of engines.
// Templates use %[1]s for the rendered table name and ? for bind parameters.
type Dialect struct {
	name      string
	driver    string
	quote     func(string) string
	templates map[QueryKind]string
}

// DialectFor selects the dialect for a driver identifier. Only the exact
// identifier "sqlite" selects the SQLite dialect; every other identifier,
// including unrecognized ones, falls through to the default dialect.
func DialectFor(driver string) Dialect {
	if driver == "sqlite" {
		return Dialect{
			name:   DialectSQLite,
			driver: driver,
			quote:  quoteBacktick,
			templates: map[QueryKind]string{
				KindFetchAll:     "SELECT `version` FROM %[1]s ORDER BY `version` ASC",
				KindUp:           "INSERT INTO %[1]s VALUES (?)",
				KindDown:         "DELETE FROM %[1]s WHERE `version` = ?",
				KindHasSchema:    "SELECT `name` FROM `sqlite_master` WHERE `type` = 'table'",
				KindCreateSchema: "CREATE TABLE %[1]s (`version` NOT NULL)",
			},
		}
	}

	hasSchema := "SHOW TABLES"
	if postgresDrivers[driver] {
		hasSchema = postgresTableListing
	}

	return Dialect{
		name:   DialectDefault,
		driver: driver,
		quote:  func(name string) string { return name },
		templates: map[QueryKind]string{
			KindFetchAll:     "SELECT version FROM %[1]s ORDER BY version ASC",
			KindUp:           "INSERT INTO %[1]s (version) VALUES (?)",
			KindDown:         "DELETE FROM %[1]s WHERE version = ?",
			KindHasSchema:    hasSchema,
			KindCreateSchema: "CREATE TABLE %[1]s (version VARCHAR(255) NOT NULL)",
		},
	}
}

// Name returns DialectSQLite or DialectDefault.
func (d Dialect) Name() string {
	return d.name
}

// Validated reports whether the driver identifier is explicitly supported
// rather than merely defaulted.
func (d Dialect) Validated() bool {
	return validatedDrivers[d.driver]
}

// Render returns the statement of the given kind for table.
func (d Dialect) Render(kind QueryKind, table string) (string, error) {
	tmpl, ok := d.templates[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownQueryKind, kind)
	}

	if !strings.Contains(tmpl, "%[1]s") {
		return tmpl, nil
	}

	return fmt.Sprintf(tmpl, d.quote(table)), nil
}

// quoteBacktick quotes an identifier with backticks, doubling any embedded backtick.
func quoteBacktick(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
