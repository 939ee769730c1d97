// Package db provides database initialization and access for SQLite and PostgreSQL.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// sqliteDriver is go-sqlite3 with a Unicode-aware casefold(text) function on
// every connection. SQLite's built-in LOWER only folds ASCII.
const sqliteDriver = "sqlite3_casefold"

func init() {
	sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("casefold", strings.ToLower, true)
		},
	})
}

// sqliteParams are appended to every SQLite path. Immediate transactions take the
// write lock at BEGIN, so two bookings cannot interleave their reads and writes.
const sqliteParams = "_txlock=immediate&_busy_timeout=5000&_foreign_keys=on"

// DB wraps *sql.DB with the dialect it was opened with. Queries are written with
// ? placeholders and rebound for the dialect on the way through.
type DB struct {
	*sql.DB
	dialect Dialect
}

// DefaultPath returns the default database path: ~/.rental-booker/rentals.db
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".rental-booker", "rentals.db"), nil
}

// Open opens (or creates) a SQLite database at the given path,
// enables WAL mode and foreign keys, and runs migrations.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
	}
	return Connect(SQLite, path+"?"+sqliteParams)
}

// Connect opens a database for the given dialect and DSN, verifies the
// connection and runs migrations.
func Connect(dialect Dialect, dsn string) (*DB, error) {
	if !dialect.Valid() {
		return nil, fmt.Errorf("unsupported database driver %q", dialect)
	}

	sqlDB, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	d := Wrap(sqlDB, dialect)

	if err := d.configure(); err != nil {
		closeErr := sqlDB.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("%w (also failed to close: %v)", err, closeErr)
		}
		return nil, err
	}

	if err := d.migrate(context.Background()); err != nil {
		closeErr := sqlDB.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("running migrations: %w (also failed to close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// Wrap adapts an already opened *sql.DB. It runs neither pragmas nor migrations.
func Wrap(sqlDB *sql.DB, dialect Dialect) *DB {
	return &DB{DB: sqlDB, dialect: dialect}
}

// Dialect reports which SQL dialect the database speaks.
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// configure checks connectivity and sets SQLite journal mode.
// Foreign keys are enabled per connection through the DSN.
func (d *DB) configure() error {
	if err := d.Ping(); err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	if d.dialect != SQLite {
		return nil
	}

	if _, err := d.DB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("executing PRAGMA journal_mode=WAL: %w", err)
	}
	return nil
}

// ExecContext executes a query after rebinding its placeholders.
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return d.DB.ExecContext(ctx, d.dialect.Rebind(query), args...)
}

// QueryContext runs a query after rebinding its placeholders.
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return d.DB.QueryContext(ctx, d.dialect.Rebind(query), args...)
}

// QueryRowContext runs a single-row query after rebinding its placeholders.
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return d.DB.QueryRowContext(ctx, d.dialect.Rebind(query), args...)
}
