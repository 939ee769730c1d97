// Package rewards computes loyalty points and reads the rewards ledger.
package rewards

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/evcraddock/rental-booker/internal/db"
)

// Rate is the share of the booking price awarded as points.
var Rate = decimal.RequireFromString("0.01")

// Points returns floor(price × Rate). Negative prices earn nothing.
func Points(price decimal.Decimal) int64 {
	p := price.Mul(Rate).Floor().IntPart()
	if p < 0 {
		return 0
	}
	return p
}

// Reward is one ledger row, created once per booking.
type Reward struct {
	ID            int64  `json:"reward_id"`
	BookingID     int64  `json:"booking_id"`
	Email         string `json:"email"`
	PointsBalance int64  `json:"points_balance"`
}

// Repository reads and writes the rewards ledger.
type Repository struct {
	q db.Querier
}

// NewRepository creates a rewards repository over a database or a transaction.
func NewRepository(q db.Querier) *Repository {
	return &Repository{q: q}
}

// Insert allocates a reward id and records points for a booking.
func (r *Repository) Insert(ctx context.Context, bookingID int64, email string, points int64) (*Reward, error) {
	id, err := db.NextID(ctx, r.q, "rewards", "reward_id")
	if err != nil {
		return nil, err
	}

	_, err = r.q.ExecContext(ctx,
		"INSERT INTO rewards (reward_id, booking_id, email, points_balance) VALUES (?, ?, ?, ?)",
		id, bookingID, email, points,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting reward: %w", err)
	}

	return &Reward{ID: id, BookingID: bookingID, Email: email, PointsBalance: points}, nil
}

// ListByEmail returns the rewards earned by a renter, newest booking first.
func (r *Repository) ListByEmail(ctx context.Context, email string) (rewards []*Reward, err error) {
	rows, err := r.q.QueryContext(ctx,
		"SELECT reward_id, booking_id, email, points_balance FROM rewards WHERE email = ? ORDER BY booking_id DESC",
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("listing rewards: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		var rw Reward
		if err := rows.Scan(&rw.ID, &rw.BookingID, &rw.Email, &rw.PointsBalance); err != nil {
			return nil, fmt.Errorf("scanning reward: %w", err)
		}
		rewards = append(rewards, &rw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rewards: %w", err)
	}

	return rewards, nil
}

// Total returns the sum of a renter's points, 0 when there are none.
func (r *Repository) Total(ctx context.Context, email string) (int64, error) {
	var total int64
	err := r.q.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(points_balance), 0) FROM rewards WHERE email = ?", email,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing rewards: %w", err)
	}
	return total, nil
}
