// Package dashboard assembles a renter's profile, bookings and reward total.
package dashboard

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evcraddock/rental-booker/internal/apperr"
	"github.com/evcraddock/rental-booker/internal/db"
	"github.com/evcraddock/rental-booker/internal/renter"
	"github.com/evcraddock/rental-booker/internal/rewards"
)

// Booking is one row of a renter's booking history.
type Booking struct {
	BookingID   int64               `json:"booking_id"`
	BookingDate time.Time           `json:"booking_date"`
	PropertyID  int64               `json:"property_id"`
	Location    string              `json:"location"`
	City        string              `json:"city"`
	State       string              `json:"state"`
	Price       decimal.NullDecimal `json:"price"`
	CardNumber  string              `json:"card_number"`
	Points      int64               `json:"points"`
}

// Dashboard is everything shown on a renter's page.
type Dashboard struct {
	Profile     *renter.Profile `json:"profile"`
	Bookings    []*Booking      `json:"bookings"`
	TotalPoints int64           `json:"total_points"`
}

// Service reads dashboards.
type Service struct {
	db *db.DB
}

// NewService creates a dashboard service.
func NewService(database *db.DB) *Service {
	return &Service{db: database}
}

// Get returns the dashboard for email. An unknown email is
// apperr.ErrRenterNotFound; a renter without bookings gets an empty list.
func (s *Service) Get(ctx context.Context, email string) (*Dashboard, error) {
	profile, err := renter.NewRepository(s.db).GetProfile(ctx, email)
	if err != nil {
		return nil, apperr.Storage("reading renter", err)
	}

	bookings, err := s.listBookings(ctx, email)
	if err != nil {
		return nil, apperr.Storage("listing bookings", err)
	}

	total, err := rewards.NewRepository(s.db).Total(ctx, email)
	if err != nil {
		return nil, apperr.Storage("summing rewards", err)
	}

	return &Dashboard{Profile: profile, Bookings: bookings, TotalPoints: total}, nil
}

func (s *Service) listBookings(ctx context.Context, email string) (bookings []*Booking, err error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.booking_id, b.booking_date, p.property_id, p.location, p.city, p.state, p.price,
			b.card_number, r.points_balance
		 FROM rewards r
		 JOIN booking b ON b.booking_id = r.booking_id
		 JOIN property p ON p.property_id = b.property_id
		 WHERE r.email = ?
		 ORDER BY b.booking_date DESC, b.booking_id DESC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	bookings = []*Booking{}
	for rows.Next() {
		var b Booking
		var date sql.NullTime
		if err := rows.Scan(&b.BookingID, &date, &b.PropertyID, &b.Location, &b.City, &b.State,
			&b.Price, &b.CardNumber, &b.Points); err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		b.BookingDate = date.Time
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookings: %w", err)
	}

	return bookings, nil
}
