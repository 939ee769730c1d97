package rewards

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/evcraddock/rental-booker/internal/db"
)

func TestPoints(t *testing.T) {
	tests := []struct {
		price string
		want  int64
	}{
		{"9500000.00", 95000},
		{"149.00", 1},
		{"99.00", 0},
		{"0", 0},
		{"199.99", 1},
		{"200.00", 2},
		{"0.29", 0},
		{"-500", 0},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			got := Points(decimal.RequireFromString(tt.price))
			if got != tt.want {
				t.Errorf("Points(%s) = %d, want %d", tt.price, got, tt.want)
			}
		})
	}
}

func TestLedger(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	repo := NewRepository(d)

	total, err := repo.Total(ctx, "jo@example.com")
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 0 {
		t.Errorf("empty total = %d, want 0", total)
	}

	for _, stmt := range []string{
		`INSERT INTO users (email, first_name) VALUES ('jo@example.com', 'Jo')`,
		`INSERT INTO renter (email) VALUES ('jo@example.com')`,
		`INSERT INTO credit_card (card_number, email) VALUES ('4111', 'jo@example.com')`,
		`INSERT INTO property (property_id, location, city, state) VALUES (1, 'a', 'b', 'c')`,
		`INSERT INTO booking (booking_id, card_number, property_id, booking_date) VALUES (1, '4111', 1, '2026-01-01')`,
		`INSERT INTO booking (booking_id, card_number, property_id, booking_date) VALUES (2, '4111', 1, '2026-01-02')`,
	} {
		if _, err := d.Exec(stmt); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	first, err := repo.Insert(ctx, 1, "jo@example.com", 12)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	second, err := repo.Insert(ctx, 2, "jo@example.com", 30)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Errorf("reward ids = %d, %d, want 1, 2", first.ID, second.ID)
	}

	if _, err := repo.Insert(ctx, 1, "jo@example.com", 5); err == nil {
		t.Error("expected second reward for the same booking to fail")
	}

	list, err := repo.ListByEmail(ctx, "jo@example.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].BookingID != 2 {
		t.Fatalf("list = %+v, want booking 2 first", list)
	}

	total, err = repo.Total(ctx, "jo@example.com")
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 42 {
		t.Errorf("total = %d, want 42", total)
	}
}

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}
