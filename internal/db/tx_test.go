package db

import (
	"context"
	"errors"
	"testing"
)

func TestInTxCommits(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)

	err := d.InTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO users (email, first_name) VALUES (?, ?)`, "c@example.com", "C")
		return err
	})
	if err != nil {
		t.Fatalf("in tx: %v", err)
	}

	if n := countRows(t, d, "users"); n != 1 {
		t.Errorf("users = %d, want 1", n)
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	sentinel := errors.New("stop")

	err := d.InTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO users (email, first_name) VALUES (?, ?)`, "r@example.com", "R"); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}

	if n := countRows(t, d, "users"); n != 0 {
		t.Errorf("users = %d, want 0 after rollback", n)
	}
}

func TestInTxRollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to propagate")
			}
		}()
		_ = d.InTx(ctx, func(tx *Tx) error {
			if _, err := tx.ExecContext(ctx, `INSERT INTO users (email, first_name) VALUES (?, ?)`, "p@example.com", "P"); err != nil {
				return err
			}
			panic("boom")
		})
	}()

	if n := countRows(t, d, "users"); n != 0 {
		t.Errorf("users = %d, want 0 after panic", n)
	}
}

func countRows(t *testing.T, d *DB, table string) int {
	t.Helper()
	var n int
	if err := d.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
