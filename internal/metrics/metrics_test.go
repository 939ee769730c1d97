package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/evcraddock/rental-booker/internal/apperr"
)

func TestObserveBooking(t *testing.T) {
	m := New()

	m.ObserveBooking(nil, 95000)
	m.ObserveBooking(nil, 0)
	m.ObserveBooking(apperr.ErrPropertyUnavailable, 0)
	m.ObserveBooking(errors.New("boom"), 0)

	if got := testutil.ToFloat64(m.bookings.WithLabelValues("ok")); got != 2 {
		t.Errorf("ok bookings = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.bookings.WithLabelValues("property_unavailable")); got != 1 {
		t.Errorf("unavailable bookings = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.bookings.WithLabelValues("storage")); got != 1 {
		t.Errorf("storage bookings = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.points); got != 95000 {
		t.Errorf("points = %v, want 95000", got)
	}
}

func TestObserveRegistration(t *testing.T) {
	m := New()
	m.ObserveRegistration(apperr.Validation("first name is required"))

	if got := testutil.ToFloat64(m.registrations.WithLabelValues("validation")); got != 1 {
		t.Errorf("validation registrations = %v, want 1", got)
	}
}

func TestObserveEmail(t *testing.T) {
	m := New()
	m.ObserveEmail(nil)
	m.ObserveEmail(nil)
	m.ObserveEmail(errors.New("smtp down"))

	if got := testutil.ToFloat64(m.emails.WithLabelValues("sent")); got != 2 {
		t.Errorf("sent = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.emails.WithLabelValues("failed")); got != 1 {
		t.Errorf("failed = %v, want 1", got)
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/properties/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties/"+id, nil))
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/properties/{id}", "404"))
	if got != 2 {
		t.Errorf("requests = %v, want 2", got)
	}
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.ObserveBooking(nil, 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`rb_bookings_total{outcome="ok"} 1`, "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}
