// Package web provides the HTTP server, HTML pages and JSON API for rental-booker.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/evcraddock/rental-booker/internal/booking"
	"github.com/evcraddock/rental-booker/internal/config"
	"github.com/evcraddock/rental-booker/internal/dashboard"
	"github.com/evcraddock/rental-booker/internal/db"
	"github.com/evcraddock/rental-booker/internal/email"
	"github.com/evcraddock/rental-booker/internal/logging"
	"github.com/evcraddock/rental-booker/internal/metrics"
	"github.com/evcraddock/rental-booker/internal/property"
	"github.com/evcraddock/rental-booker/internal/renter"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var pageNames = []string{"home.html", "renter_new.html", "properties.html", "booking_new.html", "dashboard.html", "error.html"}

// Server is the web UI and API HTTP server.
type Server struct {
	db         *db.DB
	cfg        config.Config
	metrics    *metrics.Metrics
	renters    *renter.Service
	bookings   *booking.Service
	dashboards *dashboard.Service
	props      *property.Service
	flash      *flasher
	mailer     email.Sender
	pages      map[string]*template.Template
	router     chi.Router
}

// NewServer creates a web server over database. A nil m gets a fresh registry.
func NewServer(database *db.DB, cfg config.Config, m *metrics.Metrics) (*Server, error) {
	if m == nil {
		m = metrics.New()
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		db:         database,
		cfg:        cfg,
		metrics:    m,
		renters:    renter.NewService(database),
		bookings:   booking.NewService(database),
		dashboards: dashboard.NewService(database),
		props:      property.NewService(database),
		flash:      newFlasher(cfg.SecretKey),
		pages:      pages,
	}

	if cfg.SMTP.IsConfigured() {
		s.mailer = email.NewSMTPSender(cfg.SMTP)
	}

	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) routes() error {
	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static sub-fs: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logging.RequestLogger)
	r.Use(s.metrics.Middleware)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Get("/", s.handleHome)
	r.Get("/renters/new", s.handleRenterForm)
	r.Post("/renters/new", s.handleRenterCreate)
	r.Get("/renters/{email}", s.handleDashboard)
	r.Get("/properties", s.handleProperties)
	r.Get("/bookings/new", s.handleBookingForm)
	r.Post("/bookings/new", s.handleBookingCreate)

	r.Route("/api", func(r chi.Router) {
		r.Post("/renters", s.apiRegisterRenter)
		r.Get("/renters/{email}/dashboard", s.apiDashboard)
		r.Get("/properties", s.apiSearchProperties)
		r.Get("/properties/{id}", s.apiGetProperty)
		r.Post("/bookings", s.apiCreateBooking)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			apiError(w, "not found", "not_found", http.StatusNotFound)
		})
	})

	s.router = r
	return nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured port until ctx is cancelled, then
// drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting web server", "addr", srv.Addr, "base_url", s.cfg.BaseURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// handleHealth reports whether the database answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		apiJSON(w, map[string]string{"status": "unavailable"}, http.StatusServiceUnavailable)
		return
	}
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func parsePages() (map[string]*template.Template, error) {
	funcMap := template.FuncMap{
		"formatPrice": tmplFormatPrice,
		"formatRate":  tmplFormatRate,
		"formatStr":   tmplFormatStr,
		"formatDate":  tmplFormatDate,
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// Template helper functions

func tmplFormatPrice(p decimal.NullDecimal) string {
	if !p.Valid {
		return "—"
	}
	return "$" + formatMoney(p.Decimal)
}

func tmplFormatRate(p decimal.NullDecimal) string {
	if !p.Valid {
		return "—"
	}
	return p.Decimal.StringFixed(2)
}

func tmplFormatStr(s *string) string {
	if s == nil {
		return "—"
	}
	return *s
}

func tmplFormatDate(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return "—"
		}
		return t.Format(booking.DateLayout)
	case *time.Time:
		if t == nil {
			return "—"
		}
		return t.Format(booking.DateLayout)
	default:
		return "—"
	}
}

// formatMoney renders d with two decimals and thousands separators.
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	var parts []string
	for len(whole) > 3 {
		parts = append([]string{whole[len(whole)-3:]}, parts...)
		whole = whole[:len(whole)-3]
	}
	parts = append([]string{whole}, parts...)
	return sign + strings.Join(parts, ",") + "." + frac
}
