package db

import (
	"context"
	"testing"
)

func TestNextID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		setup   []string
		table   string
		column  string
		want    int64
		wantErr bool
	}{
		{
			name:   "empty table starts at one",
			table:  "booking",
			column: "booking_id",
			want:   1,
		},
		{
			name: "max plus one",
			setup: []string{
				`INSERT INTO users (email, first_name) VALUES ('r@example.com', 'R')`,
				`INSERT INTO property (property_id, location, city, state) VALUES (1, '1 Elm', 'Austin', 'TX')`,
				`INSERT INTO credit_card (card_number, email) VALUES ('4111', 'r@example.com')`,
				`INSERT INTO booking (booking_id, card_number, property_id, booking_date) VALUES (3, '4111', 1, '2026-01-01')`,
				`INSERT INTO booking (booking_id, card_number, property_id, booking_date) VALUES (41, '4111', 1, '2026-01-01')`,
			},
			table:  "booking",
			column: "booking_id",
			want:   42,
		},
		{
			name:    "rejects injected table name",
			table:   "booking; DROP TABLE users",
			column:  "booking_id",
			wantErr: true,
		},
		{
			name:    "rejects empty column",
			table:   "rewards",
			column:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := openTestDB(t)
			for _, s := range tt.setup {
				if _, err := d.Exec(s); err != nil {
					t.Fatalf("setup %q: %v", s, err)
				}
			}

			got, err := NextID(ctx, d, tt.table, tt.column)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("next id: %v", err)
			}
			if got != tt.want {
				t.Errorf("NextID() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNextIDInsideTransaction(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)

	err := d.InTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO users (email, first_name) VALUES (?, ?)`, "a@example.com", "A"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO renter (email) VALUES (?)`, "a@example.com"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO property (property_id, location, city, state) VALUES (1, 'x', 'y', 'z')`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO credit_card (card_number, email) VALUES ('1', 'a@example.com')`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO booking VALUES (7, '1', 1, '2026-02-02')`); err != nil {
			return err
		}

		// Sees the uncommitted booking.
		id, err := NextID(ctx, tx, "booking", "booking_id")
		if err != nil {
			return err
		}
		if id != 8 {
			t.Errorf("NextID() = %d, want 8", id)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := map[string]bool{
		"booking":             true,
		"commercial_building": true,
		"_x1":                 true,
		"1booking":            false,
		"booking id":          false,
		"rewards;":            false,
		"":                    false,
	}
	for in, want := range tests {
		if got := isIdentifier(in); got != want {
			t.Errorf("isIdentifier(%q) = %v, want %v", in, got, want)
		}
	}
}
