package db

import (
	"context"
	"fmt"
)

// NextID returns MAX(column)+1 for table, or 1 when the table is empty.
//
// The read is only safe against concurrent allocations when q is the same
// transaction that inserts the id. On SQLite that transaction holds the write
// lock from BEGIN; on PostgreSQL a colliding insert fails on the primary key.
func NextID(ctx context.Context, q Querier, table, column string) (int64, error) {
	if !isIdentifier(table) || !isIdentifier(column) {
		return 0, fmt.Errorf("invalid identifier %q.%q", table, column)
	}

	query := fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) + 1 FROM %s", column, table)

	var next int64
	if err := q.QueryRowContext(ctx, query).Scan(&next); err != nil {
		return 0, fmt.Errorf("allocating %s.%s: %w", table, column, err)
	}
	return next, nil
}

// isIdentifier reports whether s is a bare SQL identifier safe to interpolate.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
