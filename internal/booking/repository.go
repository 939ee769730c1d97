package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/evcraddock/rental-booker/internal/db"
)

// Repository writes the card, booking and books rows of a booking.
type Repository struct {
	q db.Querier
}

// NewRepository creates a booking repository over a database or a transaction.
func NewRepository(q db.Querier) *Repository {
	return &Repository{q: q}
}

// InsertCardIfAbsent stores c unless a card with the same number exists.
// An existing card is left exactly as it was.
func (r *Repository) InsertCardIfAbsent(ctx context.Context, c Card) error {
	var exp interface{}
	if c.ExpDate != nil {
		exp = c.ExpDate.Format(DateLayout)
	}

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO credit_card (card_number, card_holder_name, email, cvv, exp_date)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (card_number) DO NOTHING`,
		c.Number, c.HolderName, c.Email, c.CVV, exp,
	)
	if err != nil {
		return fmt.Errorf("inserting credit card: %w", err)
	}
	return nil
}

// Insert allocates a booking id and records the booking.
func (r *Repository) Insert(ctx context.Context, cardNumber string, propertyID int64, date time.Time) (int64, error) {
	id, err := db.NextID(ctx, r.q, "booking", "booking_id")
	if err != nil {
		return 0, err
	}

	_, err = r.q.ExecContext(ctx,
		"INSERT INTO booking (booking_id, card_number, property_id, booking_date) VALUES (?, ?, ?, ?)",
		id, cardNumber, propertyID, date.Format(DateLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting booking: %w", err)
	}
	return id, nil
}

// LinkRenter records that email has booked propertyID. Repeats are ignored.
func (r *Repository) LinkRenter(ctx context.Context, email string, propertyID int64) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT INTO books (renter_email, property_id) VALUES (?, ?) ON CONFLICT (renter_email, property_id) DO NOTHING",
		email, propertyID,
	)
	if err != nil {
		return fmt.Errorf("linking renter to property: %w", err)
	}
	return nil
}
