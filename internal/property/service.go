package property

import (
	"context"

	"github.com/evcraddock/rental-booker/internal/apperr"
	"github.com/evcraddock/rental-booker/internal/db"
)

// Service is the read side of the property catalogue used by the web layer.
// Errors come back classified for apperr.
type Service struct {
	repo *Repository
}

// NewService creates a property service over q.
func NewService(q db.Querier) *Service {
	return &Service{repo: NewRepository(q)}
}

// Search returns the properties matching opts. The result is never nil.
func (s *Service) Search(ctx context.Context, opts SearchOptions) ([]*Property, error) {
	props, err := s.repo.Search(ctx, opts)
	if err != nil {
		return nil, apperr.Storage("searching properties", err)
	}
	if props == nil {
		props = []*Property{}
	}
	return props, nil
}

// Available returns every property that can still be booked.
func (s *Service) Available(ctx context.Context) ([]*Property, error) {
	props, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, apperr.Storage("listing properties", err)
	}
	return props, nil
}

// Get returns one property, or an error wrapping apperr.ErrPropertyNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage("reading property", err)
	}
	return p, nil
}
