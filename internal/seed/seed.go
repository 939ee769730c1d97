// Package seed loads neighbourhoods, agents and properties from a YAML file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/evcraddock/rental-booker/internal/apperr"
	"github.com/evcraddock/rental-booker/internal/db"
	"github.com/evcraddock/rental-booker/internal/property"
)

// File is the seed document.
type File struct {
	Neighbourhoods []Neighbourhood `yaml:"neighbourhoods"`
	Agents         []Agent         `yaml:"agents"`
	Properties     []Property      `yaml:"properties"`
}

// Neighbourhood is keyed by zip code.
type Neighbourhood struct {
	ZipCode       string           `yaml:"zip_code"`
	CrimeRate     *decimal.Decimal `yaml:"crime_rate"`
	NearbySchools string           `yaml:"nearby_schools"`
}

// Agent is a user who lists properties.
type Agent struct {
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name"`
	Address   string `yaml:"address"`
}

// Property is a listing. ID 0 means allocate the next id.
type Property struct {
	ID         int64            `yaml:"id"`
	Location   string           `yaml:"location"`
	City       string           `yaml:"city"`
	State      string           `yaml:"state"`
	Price      *decimal.Decimal `yaml:"price"`
	Available  *bool            `yaml:"available"`
	ZipCode    string           `yaml:"zip_code"`
	AgentEmail string           `yaml:"agent_email"`
	Type       string           `yaml:"type"`
}

// Summary counts what Apply wrote.
type Summary struct {
	Neighbourhoods int `json:"neighbourhoods"`
	Agents         int `json:"agents"`
	Properties     int `json:"properties"`
	Skipped        int `json:"skipped"`
}

// Load decodes a seed document.
func Load(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, apperr.Validation("reading seed file: %v", err)
	}
	return &f, nil
}

// LoadFile decodes the seed document at path.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer fh.Close()
	return Load(fh)
}

// Validate checks every entry before anything is written.
func (f *File) Validate() error {
	for i, n := range f.Neighbourhoods {
		if strings.TrimSpace(n.ZipCode) == "" {
			return apperr.Validation("neighbourhood %d: zip code is required", i+1)
		}
	}
	for i, a := range f.Agents {
		if strings.TrimSpace(a.Email) == "" || strings.TrimSpace(a.FirstName) == "" {
			return apperr.Validation("agent %d: email and first name are required", i+1)
		}
	}
	for i, p := range f.Properties {
		if p.Location == "" || p.City == "" || p.State == "" {
			return apperr.Validation("property %d: location, city and state are required", i+1)
		}
		if _, err := p.kind(); err != nil {
			return apperr.Validation("property %d: %v", i+1, err)
		}
		if p.Price != nil && p.Price.IsNegative() {
			return apperr.Validation("property %d: price cannot be negative", i+1)
		}
	}
	return nil
}

func (p Property) kind() (property.Kind, error) {
	k, err := property.ParseKind(p.Type)
	if err != nil {
		return property.KindUnknown, err
	}
	if k == property.KindUnknown {
		return k, fmt.Errorf("property type is required")
	}
	return k, nil
}

// Apply writes f in one transaction. Neighbourhoods and agents are upserted;
// properties whose explicit id already exists are skipped.
func Apply(ctx context.Context, d *db.DB, f *File) (*Summary, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	var sum Summary
	err := d.InTx(ctx, func(tx *db.Tx) error {
		for _, n := range f.Neighbourhoods {
			var crime interface{}
			if n.CrimeRate != nil {
				crime = *n.CrimeRate
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO neighbourhood (zip_code, crime_rate, nearby_schools) VALUES (?, ?, ?)
				 ON CONFLICT (zip_code) DO UPDATE SET crime_rate = excluded.crime_rate, nearby_schools = excluded.nearby_schools`,
				n.ZipCode, crime, nullable(n.NearbySchools),
			)
			if err != nil {
				return fmt.Errorf("upserting neighbourhood %s: %w", n.ZipCode, err)
			}
			sum.Neighbourhoods++
		}

		for _, a := range f.Agents {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO users (email, first_name, address) VALUES (?, ?, ?)
				 ON CONFLICT (email) DO UPDATE SET first_name = excluded.first_name, address = excluded.address`,
				a.Email, a.FirstName, nullable(a.Address),
			)
			if err != nil {
				return fmt.Errorf("upserting agent %s: %w", a.Email, err)
			}
			sum.Agents++
		}

		repo := property.NewRepository(tx)
		for _, p := range f.Properties {
			if p.ID != 0 {
				_, err := repo.GetByID(ctx, p.ID)
				if err == nil {
					sum.Skipped++
					continue
				}
				if !errors.Is(err, apperr.ErrPropertyNotFound) {
					return err
				}
			}

			kind, _ := p.kind()
			prop := &property.Property{
				ID:         p.ID,
				Location:   p.Location,
				City:       p.City,
				State:      p.State,
				Available:  p.Available == nil || *p.Available,
				ZipCode:    nullable(p.ZipCode),
				AgentEmail: nullable(p.AgentEmail),
				Kind:       kind,
			}
			if p.Price != nil {
				prop.Price = decimal.NewNullDecimal(*p.Price)
			}

			if _, err := repo.Insert(ctx, prop); err != nil {
				return err
			}
			sum.Properties++
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Storage("seeding", err)
	}

	slog.Info("seed applied",
		"neighbourhoods", sum.Neighbourhoods,
		"agents", sum.Agents,
		"properties", sum.Properties,
		"skipped", sum.Skipped,
	)
	return &sum, nil
}

func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
