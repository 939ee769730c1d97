// Package property provides the property domain model and data access.
package property

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind is the property type, decided by which subtype table holds the property id.
type Kind int

const (
	KindUnknown Kind = iota
	KindHouse
	KindApartment
	KindCommercialBuilding
	KindLand
	KindVacationHouse
)

// Kinds lists the concrete kinds in classification priority order.
var Kinds = []Kind{KindHouse, KindApartment, KindCommercialBuilding, KindLand, KindVacationHouse}

var kindLabels = map[Kind]string{
	KindUnknown:            "Unknown",
	KindHouse:              "House",
	KindApartment:          "Apartment",
	KindCommercialBuilding: "Commercial Building",
	KindLand:               "Land",
	KindVacationHouse:      "Vacation House",
}

var kindTables = map[Kind]string{
	KindHouse:              "house",
	KindApartment:          "apartment",
	KindCommercialBuilding: "commercial_building",
	KindLand:               "land",
	KindVacationHouse:      "vacation_house",
}

// String returns the display label, e.g. "Commercial Building".
func (k Kind) String() string {
	if s, ok := kindLabels[k]; ok {
		return s
	}
	return kindLabels[KindUnknown]
}

// Table returns the subtype table for k, or "" for KindUnknown.
func (k Kind) Table() string {
	return kindTables[k]
}

// ParseKind accepts a label ("Vacation House") or table name ("vacation_house"), any case.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for k, label := range kindLabels {
		if norm == strings.ToLower(label) || (norm != "" && norm == kindTables[k]) {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown property type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// KindFromMembership picks the first kind, in priority order, whose subtype
// table holds the property. The flags follow the order of Kinds.
func KindFromMembership(house, apartment, commercial, land, vacation bool) Kind {
	for i, member := range []bool{house, apartment, commercial, land, vacation} {
		if member {
			return Kinds[i]
		}
	}
	return KindUnknown
}

// Property is a rentable listing joined with its neighbourhood and agent.
type Property struct {
	ID            int64               `json:"property_id"`
	Location      string              `json:"location"`
	City          string              `json:"city"`
	State         string              `json:"state"`
	Price         decimal.NullDecimal `json:"price"`
	Available     bool                `json:"availability"`
	ZipCode       *string             `json:"zip_code,omitempty"`
	CrimeRate     decimal.NullDecimal `json:"crime_rate"`
	NearbySchools *string             `json:"nearby_schools,omitempty"`
	AgentEmail    *string             `json:"agent_email,omitempty"`
	AgentName     *string             `json:"agent_name,omitempty"`
	Kind          Kind                `json:"property_type"`
}

// PriceOrZero returns the price, treating a missing one as zero.
func (p *Property) PriceOrZero() decimal.Decimal {
	if !p.Price.Valid {
		return decimal.Zero
	}
	return p.Price.Decimal
}

// scanProperty scans a property from a row produced with selectSQL.
func scanProperty(row interface{ Scan(...interface{}) error }) (*Property, error) {
	var p Property
	var house, apartment, commercial, land, vacation bool

	err := row.Scan(
		&p.ID, &p.Location, &p.City, &p.State, &p.Price, &p.Available,
		&p.ZipCode, &p.CrimeRate, &p.NearbySchools, &p.AgentEmail, &p.AgentName,
		&house, &apartment, &commercial, &land, &vacation,
	)
	if err != nil {
		return nil, err
	}

	p.Kind = KindFromMembership(house, apartment, commercial, land, vacation)
	return &p, nil
}
