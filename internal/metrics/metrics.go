// Package metrics exposes Prometheus counters for HTTP traffic and workflows.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evcraddock/rental-booker/internal/apperr"
)

// Metrics holds a private registry so tests and servers don't share state.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	bookings      *prometheus.CounterVec
	registrations *prometheus.CounterVec
	points        prometheus.Counter
	emails        *prometheus.CounterVec
}

// New creates and registers all collectors, including Go runtime metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rb_http_requests_total",
			Help: "HTTP requests processed, by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rb_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rb_bookings_total",
			Help: "Booking attempts by outcome.",
		}, []string{"outcome"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rb_registrations_total",
			Help: "Renter registrations by outcome.",
		}, []string{"outcome"}),
		points: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rb_reward_points_awarded_total",
			Help: "Reward points granted by committed bookings.",
		}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rb_confirmation_emails_total",
			Help: "Booking confirmation emails by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.latency, m.bookings, m.registrations, m.points, m.emails,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveBooking counts a booking attempt labelled by its error code.
func (m *Metrics) ObserveBooking(err error, points int64) {
	m.bookings.WithLabelValues(apperr.Code(err)).Inc()
	if err == nil && points > 0 {
		m.points.Add(float64(points))
	}
}

// ObserveRegistration counts a registration attempt labelled by its error code.
func (m *Metrics) ObserveRegistration(err error) {
	m.registrations.WithLabelValues(apperr.Code(err)).Inc()
}

// ObserveEmail counts a confirmation email as sent or failed.
func (m *Metrics) ObserveEmail(err error) {
	if err != nil {
		m.emails.WithLabelValues("failed").Inc()
		return
	}
	m.emails.WithLabelValues("sent").Inc()
}

// Middleware records request counts and latency under the matched chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
