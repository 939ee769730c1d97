package renter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/evcraddock/rental-booker/internal/apperr"
	"github.com/evcraddock/rental-booker/internal/db"
)

// Repository reads and writes renters.
type Repository struct {
	q db.Querier
}

// NewRepository creates a renter repository over a database or a transaction.
func NewRepository(q db.Querier) *Repository {
	return &Repository{q: q}
}

// Upsert writes the user and renter rows for reg. Existing rows for the same
// email are overwritten with the new values. Callers should pass a transaction.
func (r *Repository) Upsert(ctx context.Context, reg *Registration) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (email, first_name, address) VALUES (?, ?, ?)
		 ON CONFLICT (email) DO UPDATE SET first_name = excluded.first_name, address = excluded.address`,
		reg.Email, reg.FirstName, reg.Address,
	)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}

	_, err = r.q.ExecContext(ctx,
		`INSERT INTO renter (email, move_in_date, preferred_location, budget) VALUES (?, ?, ?, ?)
		 ON CONFLICT (email) DO UPDATE SET
			move_in_date = excluded.move_in_date,
			preferred_location = excluded.preferred_location,
			budget = excluded.budget`,
		reg.Email, formatDate(reg.MoveInDate), reg.PreferredLocation, reg.Budget,
	)
	if err != nil {
		return fmt.Errorf("upserting renter: %w", err)
	}

	return nil
}

// GetProfile returns the profile for email, or apperr.ErrRenterNotFound.
func (r *Repository) GetProfile(ctx context.Context, email string) (*Profile, error) {
	var p Profile
	var moveIn sql.NullTime

	err := r.q.QueryRowContext(ctx,
		`SELECT u.email, u.first_name, u.address, r.move_in_date, r.preferred_location, r.budget
		 FROM renter r
		 JOIN users u ON u.email = r.email
		 WHERE r.email = ?`,
		email,
	).Scan(&p.Email, &p.FirstName, &p.Address, &moveIn, &p.PreferredLocation, &p.Budget)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("renter %q: %w", email, apperr.ErrRenterNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying renter: %w", err)
	}

	if moveIn.Valid {
		d := moveIn.Time
		p.MoveInDate = &d
	}

	return &p, nil
}

// Exists reports whether a renter row exists for email.
func (r *Repository) Exists(ctx context.Context, email string) (bool, error) {
	var one int
	err := r.q.QueryRowContext(ctx, "SELECT 1 FROM renter WHERE email = ?", email).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking renter: %w", err)
	}
	return true, nil
}

// Service registers renters against a database.
type Service struct {
	db *db.DB
}

// NewService creates a registration service.
func NewService(database *db.DB) *Service {
	return &Service{db: database}
}

// Register validates in and upserts the user and renter in one transaction.
// Validation errors are returned before any storage access.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Profile, error) {
	reg, err := in.Parse()
	if err != nil {
		return nil, err
	}

	var profile *Profile
	err = s.db.InTx(ctx, func(tx *db.Tx) error {
		repo := NewRepository(tx)
		if err := repo.Upsert(ctx, reg); err != nil {
			return err
		}
		p, err := repo.GetProfile(ctx, reg.Email)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		slog.Warn("renter registration rolled back", "email", reg.Email, "error", err)
		return nil, apperr.Storage("registering renter", err)
	}

	slog.Info("renter registered", "email", reg.Email)
	return profile, nil
}

// Get returns the profile for email.
func (s *Service) Get(ctx context.Context, email string) (*Profile, error) {
	p, err := NewRepository(s.db).GetProfile(ctx, email)
	if err != nil {
		return nil, apperr.Storage("reading renter", err)
	}
	return p, nil
}
