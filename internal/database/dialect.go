package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect abstracts the differences between the supported
// database engines so repositories can be written once with ?
// placeholders.
type Dialect interface {
	// DriverName returns the driver name for sql.Open.
	DriverName() string

	// DSN returns the data source name for the connection.
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed
	// (e.g., ? to $1 for postgres).
	RewriteQuery(query string) string

	// SupportsLastInsertId returns true if the driver supports
	// LastInsertId(); postgres needs a RETURNING clause instead.
	SupportsLastInsertId() bool

	// ConfigureConnection applies engine-specific connection
	// settings (pool sizing, pragmas).
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir returns the per-engine subdirectory under
	// the migrations path.
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL to create the
	// migrations tracking table.
	CreateMigrationsTableQuery() string

	// IsForeignKeyViolation reports whether err is a foreign key
	// constraint failure from this engine. Used by the
	// registration retry to recognize the commit race between an
	// account row and its dependent profile row.
	IsForeignKeyViolation(err error) bool
}

// DialectConfig holds configuration for a database connection.
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}
