package web

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/evcraddock/rental-booker/internal/apperr"
	"github.com/evcraddock/rental-booker/internal/booking"
	"github.com/evcraddock/rental-booker/internal/dashboard"
	"github.com/evcraddock/rental-booker/internal/property"
	"github.com/evcraddock/rental-booker/internal/renter"
)

type homeData struct {
	Flash     *Flash
	Available int
}

type renterFormData struct {
	Flash *Flash
	Form  renter.RegisterInput
}

type propertiesData struct {
	Flash         *Flash
	Error         string
	City          string
	MinPrice      string
	MaxPrice      string
	OnlyAvailable bool
	Properties    []*property.Property
}

type bookingFormData struct {
	Flash      *Flash
	Properties []*property.Property
	Selected   int64
	Email      string
}

type dashboardData struct {
	Flash     *Flash
	Dashboard *dashboard.Dashboard
}

type errorData struct {
	Flash   *Flash
	Message string
}

// handleHome renders the landing page.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	avail, err := s.props.Available(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, http.StatusOK, "home.html", homeData{Flash: s.flash.pop(w, r), Available: len(avail)})
}

// handleRenterForm renders the registration form.
func (s *Server) handleRenterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "renter_new.html", renterFormData{Flash: s.flash.pop(w, r)})
}

// handleRenterCreate registers or updates a renter from a form post.
func (s *Server) handleRenterCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	in := renter.RegisterInput{
		Email:             r.FormValue("email"),
		FirstName:         r.FormValue("first_name"),
		Address:           r.FormValue("address"),
		MoveInDate:        r.FormValue("move_in_date"),
		PreferredLocation: r.FormValue("preferred_location"),
		Budget:            r.FormValue("budget"),
	}

	profile, err := s.renters.Register(r.Context(), in)
	s.metrics.ObserveRegistration(err)
	if err != nil {
		logFailure(r, "registration failed", err)
		s.render(w, apperr.HTTPStatus(err), "renter_new.html", renterFormData{
			Flash: &Flash{Kind: "error", Message: apperr.Message(err)},
			Form:  in,
		})
		return
	}

	s.flash.set(w, "success", "Renter registered successfully.")
	http.Redirect(w, r, "/renters/"+url.PathEscape(profile.Email), http.StatusSeeOther)
}

// handleProperties renders the search form and its results.
func (s *Server) handleProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := propertiesData{
		Flash:         s.flash.pop(w, r),
		City:          q.Get("city"),
		MinPrice:      q.Get("min_price"),
		MaxPrice:      q.Get("max_price"),
		OnlyAvailable: isChecked(q.Get("only_available")),
	}

	opts, err := parseSearch(q)
	if err != nil {
		data.Error = apperr.Message(err)
		s.render(w, http.StatusBadRequest, "properties.html", data)
		return
	}

	props, err := s.props.Search(r.Context(), opts)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	data.Properties = props
	s.render(w, http.StatusOK, "properties.html", data)
}

// handleBookingForm renders the booking form with every available property.
func (s *Server) handleBookingForm(w http.ResponseWriter, r *http.Request) {
	props, err := s.props.Available(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	selected, _ := strconv.ParseInt(r.URL.Query().Get("property_id"), 10, 64)
	s.render(w, http.StatusOK, "booking_new.html", bookingFormData{
		Flash:      s.flash.pop(w, r),
		Properties: props,
		Selected:   selected,
		Email:      r.URL.Query().Get("email"),
	})
}

// handleBookingCreate runs the booking workflow from a form post.
func (s *Server) handleBookingCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	propertyID, _ := strconv.ParseInt(strings.TrimSpace(r.FormValue("property_id")), 10, 64)
	req := booking.Request{
		RenterEmail:    r.FormValue("renter_email"),
		PropertyID:     propertyID,
		CardNumber:     r.FormValue("card_number"),
		CardHolderName: r.FormValue("card_holder_name"),
		CVV:            r.FormValue("cvv"),
		ExpirationDate: r.FormValue("expiration_date"),
	}

	res, err := s.bookings.Create(r.Context(), req)
	if err != nil {
		s.metrics.ObserveBooking(err, 0)
		logFailure(r, "booking failed", err)
		s.flash.set(w, "error", apperr.Message(err))
		back := url.Values{}
		if propertyID > 0 {
			back.Set("property_id", strconv.FormatInt(propertyID, 10))
		}
		if email := strings.TrimSpace(req.RenterEmail); email != "" {
			back.Set("email", email)
		}
		http.Redirect(w, r, "/bookings/new?"+back.Encode(), http.StatusSeeOther)
		return
	}
	s.metrics.ObserveBooking(nil, res.Points)
	s.sendConfirmation(r.Context(), req.RenterEmail, res)

	s.flash.set(w, "success", fmt.Sprintf("Booking #%d confirmed. You earned %d reward points.", res.BookingID, res.Points))
	http.Redirect(w, r, "/renters/"+url.PathEscape(strings.TrimSpace(req.RenterEmail)), http.StatusSeeOther)
}

// handleDashboard renders a renter's profile, bookings and points.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.dashboards.Get(r.Context(), emailParam(r))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, http.StatusOK, "dashboard.html", dashboardData{Flash: s.flash.pop(w, r), Dashboard: d})
}

// render executes a page inside the layout. The page is buffered so a
// template error never leaves a half-written response.
func (s *Server) render(w http.ResponseWriter, status int, name string, data interface{}) {
	tmpl, ok := s.pages[name]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown template %s", name), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		http.Error(w, fmt.Sprintf("Error rendering template: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("writing response", "error", err)
	}
}

// renderError shows err's user-visible message on the error page.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	logFailure(r, "request failed", err)
	s.render(w, apperr.HTTPStatus(err), "error.html", errorData{Message: apperr.Message(err)})
}

// parseSearch reads search filters from a query string.
func parseSearch(q url.Values) (property.SearchOptions, error) {
	opts := property.SearchOptions{
		City:          strings.TrimSpace(q.Get("city")),
		OnlyAvailable: isChecked(q.Get("only_available")),
	}

	var err error
	if opts.MinPrice, err = parsePrice(q.Get("min_price"), "minimum price"); err != nil {
		return opts, err
	}
	if opts.MaxPrice, err = parsePrice(q.Get("max_price"), "maximum price"); err != nil {
		return opts, err
	}
	return opts, nil
}

func parsePrice(s, label string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, apperr.Validation("%s must be a number", label)
	}
	return &d, nil
}

// emailParam returns the {email} path segment, unescaped.
func emailParam(r *http.Request) string {
	raw := chi.URLParam(r, "email")
	if email, err := url.PathUnescape(raw); err == nil {
		return email
	}
	return raw
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// logFailure logs storage failures as errors and everything else as warnings.
func logFailure(r *http.Request, msg string, err error) {
	level := slog.LevelWarn
	if apperr.Code(err) == "storage" {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, msg, "path", r.URL.Path, "code", apperr.Code(err), "error", err)
}
