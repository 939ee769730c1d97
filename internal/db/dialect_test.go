package db

import "testing"

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		in      string
		want    string
	}{
		{
			name:    "sqlite unchanged",
			dialect: SQLite,
			in:      "SELECT 1 FROM renter WHERE email = ?",
			want:    "SELECT 1 FROM renter WHERE email = ?",
		},
		{
			name:    "postgres numbered",
			dialect: Postgres,
			in:      "UPDATE property SET availability = ? WHERE property_id = ? AND availability = ?",
			want:    "UPDATE property SET availability = $1 WHERE property_id = $2 AND availability = $3",
		},
		{
			name:    "quoted question mark left alone",
			dialect: Postgres,
			in:      "SELECT '?' FROM users WHERE email = ?",
			want:    "SELECT '?' FROM users WHERE email = $1",
		},
		{
			name:    "no placeholders",
			dialect: Postgres,
			in:      "SELECT COUNT(*) FROM booking",
			want:    "SELECT COUNT(*) FROM booking",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.Rebind(tt.in); got != tt.want {
				t.Errorf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDialectValid(t *testing.T) {
	if !SQLite.Valid() || !Postgres.Valid() {
		t.Error("expected sqlite3 and postgres to be valid")
	}
	if Dialect("mysql").Valid() {
		t.Error("expected mysql to be invalid")
	}
}

func TestContainsFold(t *testing.T) {
	if got, want := SQLite.ContainsFold("p.city"), `casefold(p.city) LIKE casefold(?) ESCAPE '\'`; got != want {
		t.Errorf("sqlite = %q, want %q", got, want)
	}
	if got, want := Postgres.Rebind(Postgres.ContainsFold("p.city")), `p.city ILIKE $1 ESCAPE '\'`; got != want {
		t.Errorf("postgres = %q, want %q", got, want)
	}
}
