package property

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestKindFromMembership(t *testing.T) {
	tests := []struct {
		name                                       string
		house, apartment, commercial, land, vacation bool
		want                                       Kind
	}{
		{name: "none is unknown", want: KindUnknown},
		{name: "house", house: true, want: KindHouse},
		{name: "apartment", apartment: true, want: KindApartment},
		{name: "commercial", commercial: true, want: KindCommercialBuilding},
		{name: "land", land: true, want: KindLand},
		{name: "vacation", vacation: true, want: KindVacationHouse},
		{name: "house wins over apartment", house: true, apartment: true, want: KindHouse},
		{name: "land wins over vacation", land: true, vacation: true, want: KindLand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KindFromMembership(tt.house, tt.apartment, tt.commercial, tt.land, tt.vacation)
			if got != tt.want {
				t.Errorf("KindFromMembership() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"House", KindHouse, false},
		{"apartment", KindApartment, false},
		{"Commercial Building", KindCommercialBuilding, false},
		{"commercial_building", KindCommercialBuilding, false},
		{" vacation_house ", KindVacationHouse, false},
		{"LAND", KindLand, false},
		{"Unknown", KindUnknown, false},
		{"castle", KindUnknown, true},
		{"", KindUnknown, true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseKind(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKind(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKindJSON(t *testing.T) {
	p := Property{ID: 7, Kind: KindVacationHouse}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if raw["property_type"] != "Vacation House" {
		t.Errorf("property_type = %v, want Vacation House", raw["property_type"])
	}

	var back Property
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Kind != KindVacationHouse {
		t.Errorf("kind = %v, want %v", back.Kind, KindVacationHouse)
	}
}

func TestKindTable(t *testing.T) {
	if KindUnknown.Table() != "" {
		t.Error("unknown kind should have no table")
	}
	if KindCommercialBuilding.Table() != "commercial_building" {
		t.Errorf("table = %q", KindCommercialBuilding.Table())
	}
	if Kind(99).String() != "Unknown" {
		t.Errorf("out of range kind = %q, want Unknown", Kind(99).String())
	}
}

func TestPriceOrZero(t *testing.T) {
	missing := &Property{}
	if !missing.PriceOrZero().IsZero() {
		t.Errorf("missing price = %s, want 0", missing.PriceOrZero())
	}

	priced := &Property{Price: decimal.NewNullDecimal(decimal.RequireFromString("149.00"))}
	if !priced.PriceOrZero().Equal(decimal.RequireFromString("149")) {
		t.Errorf("price = %s, want 149", priced.PriceOrZero())
	}
}
