package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/evcraddock/rental-booker/internal/apperr"
	"github.com/evcraddock/rental-booker/internal/db"
	"github.com/evcraddock/rental-booker/internal/property"
	"github.com/evcraddock/rental-booker/internal/renter"
	"github.com/evcraddock/rental-booker/internal/rewards"
)

// Service creates bookings.
type Service struct {
	db  *db.DB
	now func() time.Time
}

// NewService creates a booking service that dates bookings with the local clock.
func NewService(database *db.DB) *Service {
	return &Service{db: database, now: time.Now}
}

// Create books a property for a renter. Every row it writes is committed
// together or not at all. The property is claimed with a conditional update,
// so two concurrent bookings cannot both succeed.
func (s *Service) Create(ctx context.Context, req Request) (*Result, error) {
	req, exp, err := req.normalize()
	if err != nil {
		return nil, err
	}

	var res *Result
	err = s.db.InTx(ctx, func(tx *db.Tx) error {
		r, err := s.create(ctx, tx, req, exp)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		slog.Warn("booking rolled back",
			"renter", req.RenterEmail,
			"property_id", req.PropertyID,
			"reason", apperr.Code(err),
			"error", err,
		)
		return nil, apperr.Storage("creating booking", err)
	}

	slog.Info("booking created",
		"booking_id", res.BookingID,
		"renter", req.RenterEmail,
		"property_id", res.PropertyID,
		"points", res.Points,
	)
	return res, nil
}

func (s *Service) create(ctx context.Context, tx *db.Tx, req Request, exp *time.Time) (*Result, error) {
	exists, err := renter.NewRepository(tx).Exists(ctx, req.RenterEmail)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("renter %q: %w", req.RenterEmail, apperr.ErrRenterNotFound)
	}

	props := property.NewRepository(tx)
	prop, err := props.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if !prop.Available {
		return nil, fmt.Errorf("property %d: %w", prop.ID, apperr.ErrPropertyUnavailable)
	}

	price := prop.PriceOrZero()
	if !prop.Price.Valid {
		slog.Warn("property has no price, booking at zero", "property_id", prop.ID)
	}

	repo := NewRepository(tx)
	err = repo.InsertCardIfAbsent(ctx, Card{
		Number:     req.CardNumber,
		HolderName: req.CardHolderName,
		Email:      req.RenterEmail,
		CVV:        req.CVV,
		ExpDate:    exp,
	})
	if err != nil {
		return nil, err
	}

	today := s.now()
	bookingID, err := repo.Insert(ctx, req.CardNumber, prop.ID, today)
	if err != nil {
		return nil, err
	}

	points := rewards.Points(price)
	reward, err := rewards.NewRepository(tx).Insert(ctx, bookingID, req.RenterEmail, points)
	if err != nil {
		return nil, err
	}

	if err := repo.LinkRenter(ctx, req.RenterEmail, prop.ID); err != nil {
		return nil, err
	}

	claimed, err := props.MarkUnavailable(ctx, prop.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, fmt.Errorf("property %d claimed concurrently: %w", prop.ID, apperr.ErrPropertyUnavailable)
	}

	return &Result{
		BookingID:   bookingID,
		RewardID:    reward.ID,
		PropertyID:  prop.ID,
		Price:       price,
		Points:      points,
		BookingDate: today.Format(DateLayout),
	}, nil
}
