package db

import (
	"strconv"
	"strings"
)

// Dialect names a supported database/sql driver.
type Dialect string

const (
	SQLite   Dialect = "sqlite3"
	Postgres Dialect = "postgres"
)

// Valid returns true if d is a supported driver.
func (d Dialect) Valid() bool {
	switch d {
	case SQLite, Postgres:
		return true
	}
	return false
}

func (d Dialect) driverName() string {
	if d == SQLite {
		return sqliteDriver
	}
	return string(d)
}

// ContainsFold returns a condition matching column against one ? argument
// holding a LIKE pattern, ignoring case for any Unicode letter. Backslash
// escapes the pattern's wildcards.
func (d Dialect) ContainsFold(column string) string {
	if d == Postgres {
		return column + ` ILIKE ? ESCAPE '\'`
	}
	return "casefold(" + column + `) LIKE casefold(?) ESCAPE '\'`
}

// Rebind converts ? placeholders to $1, $2, ... for PostgreSQL.
// Question marks inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d != Postgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
