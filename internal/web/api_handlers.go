package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/evcraddock/rental-booker/internal/apperr"
	"github.com/evcraddock/rental-booker/internal/booking"
	"github.com/evcraddock/rental-booker/internal/renter"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg, code string, status int) {
	apiJSON(w, map[string]string{"error": msg, "code": code}, status)
}

// apiFail writes err as a JSON error using its taxonomy code and status.
func apiFail(w http.ResponseWriter, r *http.Request, err error) {
	logFailure(r, "api request failed", err)
	apiError(w, apperr.Message(err), apperr.Code(err), apperr.HTTPStatus(err))
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// decodeBody reads a JSON request body into v, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("invalid JSON body: %v", err)
	}
	return nil
}

// apiRegisterRenter registers or updates a renter.
func (s *Server) apiRegisterRenter(w http.ResponseWriter, r *http.Request) {
	var in renter.RegisterInput
	if err := decodeBody(w, r, &in); err != nil {
		apiFail(w, r, err)
		return
	}

	profile, err := s.renters.Register(r.Context(), in)
	s.metrics.ObserveRegistration(err)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, profile, http.StatusOK)
}

// apiSearchProperties lists properties matching the query filters.
func (s *Server) apiSearchProperties(w http.ResponseWriter, r *http.Request) {
	opts, err := parseSearch(r.URL.Query())
	if err != nil {
		apiFail(w, r, err)
		return
	}

	props, err := s.props.Search(r.Context(), opts)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, props, http.StatusOK)
}

// apiGetProperty returns one property.
func (s *Server) apiGetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		apiFail(w, r, apperr.Validation("invalid property ID"))
		return
	}

	prop, err := s.props.Get(r.Context(), id)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, prop, http.StatusOK)
}

// apiCreateBooking runs the booking workflow.
func (s *Server) apiCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req booking.Request
	if err := decodeBody(w, r, &req); err != nil {
		apiFail(w, r, err)
		return
	}

	res, err := s.bookings.Create(r.Context(), req)
	if err != nil {
		s.metrics.ObserveBooking(err, 0)
		apiFail(w, r, err)
		return
	}
	s.metrics.ObserveBooking(nil, res.Points)
	s.sendConfirmation(r.Context(), req.RenterEmail, res)
	apiJSON(w, res, http.StatusCreated)
}

// apiDashboard returns a renter's dashboard.
func (s *Server) apiDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.dashboards.Get(r.Context(), emailParam(r))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, d, http.StatusOK)
}
