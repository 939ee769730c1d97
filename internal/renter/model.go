// Package renter handles renter registration and profile lookup.
package renter

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evcraddock/rental-booker/internal/apperr"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Profile is a user joined with their renter row.
type Profile struct {
	Email             string              `json:"email"`
	FirstName         string              `json:"first_name"`
	Address           *string             `json:"address,omitempty"`
	MoveInDate        *time.Time          `json:"move_in_date,omitempty"`
	PreferredLocation *string             `json:"preferred_location,omitempty"`
	Budget            decimal.NullDecimal `json:"budget"`
}

// RegisterInput is a registration as submitted by a form or API client.
// Every field is raw text; Parse turns it into a Registration.
type RegisterInput struct {
	Email             string `json:"email"`
	FirstName         string `json:"first_name"`
	Address           string `json:"address"`
	MoveInDate        string `json:"move_in_date"`
	PreferredLocation string `json:"preferred_location"`
	Budget            string `json:"budget"`
}

// Registration is a validated registration ready to be stored.
type Registration struct {
	Email             string
	FirstName         string
	Address           *string
	MoveInDate        *time.Time
	PreferredLocation *string
	Budget            decimal.NullDecimal
}

// Parse validates in and converts optional fields. Blank optional fields become nil.
func (in RegisterInput) Parse() (*Registration, error) {
	reg := &Registration{
		Email:             strings.TrimSpace(in.Email),
		FirstName:         strings.TrimSpace(in.FirstName),
		Address:           optional(in.Address),
		PreferredLocation: optional(in.PreferredLocation),
	}

	if reg.Email == "" {
		return nil, apperr.Validation("email is required")
	}
	if reg.FirstName == "" {
		return nil, apperr.Validation("first name is required")
	}

	if s := strings.TrimSpace(in.MoveInDate); s != "" {
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			return nil, apperr.Validation("move-in date must be YYYY-MM-DD")
		}
		reg.MoveInDate = &d
	}

	if s := strings.TrimSpace(in.Budget); s != "" {
		b, err := decimal.NewFromString(s)
		if err != nil {
			return nil, apperr.Validation("budget must be a number")
		}
		if b.IsNegative() {
			return nil, apperr.Validation("budget cannot be negative")
		}
		reg.Budget = decimal.NewNullDecimal(b)
	}

	return reg, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// formatDate renders t for a DATE column, keeping NULL for nil.
func formatDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(DateLayout)
}
