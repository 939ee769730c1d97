// Package booking runs the booking workflow: card capture, booking, reward and
// availability change as one transaction.
package booking

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evcraddock/rental-booker/internal/apperr"
)

// DateLayout is the wire and storage format for booking and card dates.
const DateLayout = "2006-01-02"

// Request is a booking as submitted by a renter.
type Request struct {
	RenterEmail    string `json:"renter_email"`
	PropertyID     int64  `json:"property_id"`
	CardNumber     string `json:"card_number"`
	CardHolderName string `json:"card_holder_name"`
	CVV            string `json:"cvv"`
	ExpirationDate string `json:"expiration_date"`
}

// Result describes a committed booking.
type Result struct {
	BookingID   int64           `json:"booking_id"`
	RewardID    int64           `json:"reward_id"`
	PropertyID  int64           `json:"property_id"`
	Price       decimal.Decimal `json:"price"`
	Points      int64           `json:"points"`
	BookingDate string          `json:"booking_date"`
}

// Card is a stored payment card. Cards are written once and never updated.
type Card struct {
	Number     string
	HolderName string
	Email      string
	CVV        string
	ExpDate    *time.Time
}

// normalize trims req and checks the fields the workflow cannot run without.
func (req Request) normalize() (Request, *time.Time, error) {
	req.RenterEmail = strings.TrimSpace(req.RenterEmail)
	req.CardNumber = strings.TrimSpace(req.CardNumber)
	req.CardHolderName = strings.TrimSpace(req.CardHolderName)
	req.CVV = strings.TrimSpace(req.CVV)
	req.ExpirationDate = strings.TrimSpace(req.ExpirationDate)

	if req.RenterEmail == "" {
		return req, nil, apperr.Validation("renter email is required")
	}
	if req.PropertyID <= 0 {
		return req, nil, apperr.Validation("a property must be selected")
	}
	if req.CardNumber == "" {
		return req, nil, apperr.Validation("card number is required")
	}

	if req.ExpirationDate == "" {
		return req, nil, nil
	}
	exp, err := time.Parse(DateLayout, req.ExpirationDate)
	if err != nil {
		return req, nil, apperr.Validation("expiration date must be YYYY-MM-DD")
	}
	return req, &exp, nil
}
