package web

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/evcraddock/rental-booker/internal/booking"
	"github.com/evcraddock/rental-booker/internal/email"
)

// sendConfirmation mails the renter a receipt for a committed booking.
// A failed send is logged and counted; the booking stands either way.
func (s *Server) sendConfirmation(ctx context.Context, renterEmail string, res *booking.Result) {
	if s.mailer == nil {
		return
	}
	renterEmail = strings.TrimSpace(renterEmail)

	profile, err := s.renters.Get(ctx, renterEmail)
	if err != nil {
		slog.Warn("confirmation email skipped", "booking_id", res.BookingID, "error", err)
		return
	}
	prop, err := s.props.Get(ctx, res.PropertyID)
	if err != nil {
		slog.Warn("confirmation email skipped", "booking_id", res.BookingID, "error", err)
		return
	}

	subject, body := email.FormatConfirmation(email.Confirmation{
		FirstName:    profile.FirstName,
		BookingID:    res.BookingID,
		BookingDate:  res.BookingDate,
		Property:     prop,
		Price:        res.Price,
		Points:       res.Points,
		DashboardURL: strings.TrimRight(s.cfg.BaseURL, "/") + "/renters/" + url.PathEscape(profile.Email),
	})

	err = s.mailer.Send([]string{profile.Email}, subject, body)
	s.metrics.ObserveEmail(err)
	if err != nil {
		slog.Warn("confirmation email failed", "booking_id", res.BookingID, "to", profile.Email, "error", err)
		return
	}
	slog.Info("confirmation email sent", "booking_id", res.BookingID, "to", profile.Email)
}
