package property

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/evcraddock/rental-booker/internal/apperr"
	"github.com/evcraddock/rental-booker/internal/db"
)

// Repository provides read and insert operations for properties.
type Repository struct {
	q db.Querier
}

// NewRepository creates a property repository over a database or a transaction.
func NewRepository(q db.Querier) *Repository {
	return &Repository{q: q}
}

const selectSQL = `SELECT
		p.property_id, p.location, p.city, p.state, p.price, p.availability,
		p.zip_code, n.crime_rate, n.nearby_schools, p.agent_email, u.first_name,
		h.property_id IS NOT NULL,
		a.property_id IS NOT NULL,
		cb.property_id IS NOT NULL,
		l.property_id IS NOT NULL,
		v.property_id IS NOT NULL
	FROM property p
	LEFT JOIN neighbourhood n ON n.zip_code = p.zip_code
	LEFT JOIN users u ON u.email = p.agent_email
	LEFT JOIN house h ON h.property_id = p.property_id
	LEFT JOIN apartment a ON a.property_id = p.property_id
	LEFT JOIN commercial_building cb ON cb.property_id = p.property_id
	LEFT JOIN land l ON l.property_id = p.property_id
	LEFT JOIN vacation_house v ON v.property_id = p.property_id`

// SearchOptions controls filtering for Search. Zero values mean "no filter".
type SearchOptions struct {
	City          string // case-insensitive substring
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	OnlyAvailable bool
}

// Search returns properties matching opts, ordered by city then price.
// Unpriced properties sort after priced ones in the same city.
func (r *Repository) Search(ctx context.Context, opts SearchOptions) (props []*Property, err error) {
	query := selectSQL
	var args []interface{}
	var conditions []string

	if city := strings.TrimSpace(opts.City); city != "" {
		conditions = append(conditions, r.q.Dialect().ContainsFold("p.city"))
		args = append(args, "%"+escapeLike(city)+"%")
	}

	if opts.MinPrice != nil {
		conditions = append(conditions, "p.price >= ?")
		args = append(args, *opts.MinPrice)
	}

	if opts.MaxPrice != nil {
		conditions = append(conditions, "p.price <= ?")
		args = append(args, *opts.MaxPrice)
	}

	if opts.OnlyAvailable {
		conditions = append(conditions, "p.availability = ?")
		args = append(args, true)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY p.city, p.price IS NULL, p.price, p.property_id"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching properties: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		props = append(props, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating properties: %w", err)
	}

	return props, nil
}

// ListAvailable returns every bookable property, for the booking form.
func (r *Repository) ListAvailable(ctx context.Context) ([]*Property, error) {
	return r.Search(ctx, SearchOptions{OnlyAvailable: true})
}

// GetByID returns a property by its ID. A missing property is apperr.ErrPropertyNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Property, error) {
	row := r.q.QueryRowContext(ctx, selectSQL+" WHERE p.property_id = ?", id)

	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("property %d: %w", id, apperr.ErrPropertyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying property %d: %w", id, err)
	}

	return p, nil
}

// MarkUnavailable flips availability from true to false. It returns false
// without error when the property was already unavailable or does not exist,
// so the check and the write are one statement.
func (r *Repository) MarkUnavailable(ctx context.Context, id int64) (bool, error) {
	result, err := r.q.ExecContext(ctx,
		"UPDATE property SET availability = ? WHERE property_id = ? AND availability = ?",
		false, id, true,
	)
	if err != nil {
		return false, fmt.Errorf("updating availability: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking rows affected: %w", err)
	}

	return rows == 1, nil
}

// Insert adds a property and its subtype row. When p.ID is zero the next id
// is allocated with db.NextID, so callers should pass a transaction.
func (r *Repository) Insert(ctx context.Context, p *Property) (*Property, error) {
	if p.Kind.Table() == "" {
		return nil, apperr.Validation("property type is required (one of %s)", kindList())
	}

	id := p.ID
	if id == 0 {
		next, err := db.NextID(ctx, r.q, "property", "property_id")
		if err != nil {
			return nil, err
		}
		id = next
	}

	_, err := r.q.ExecContext(ctx,
		`INSERT INTO property (property_id, location, city, state, price, availability, zip_code, agent_email)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.Location, p.City, p.State, p.Price, p.Available, p.ZipCode, p.AgentEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting property: %w", err)
	}

	subtype := fmt.Sprintf("INSERT INTO %s (property_id) VALUES (?)", p.Kind.Table())
	if _, err := r.q.ExecContext(ctx, subtype, id); err != nil {
		return nil, fmt.Errorf("inserting %s row: %w", p.Kind.Table(), err)
	}

	return r.GetByID(ctx, id)
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func kindList() string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
