package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeAndStatus(t *testing.T) {
	driverErr := errors.New("disk I/O error")

	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"nil", nil, "ok", http.StatusOK},
		{"validation", Validation("email is required"), "validation", http.StatusBadRequest},
		{"renter", fmt.Errorf("checking renter: %w", ErrRenterNotFound), "renter_not_found", http.StatusNotFound},
		{"property", ErrPropertyNotFound, "property_not_found", http.StatusNotFound},
		{"unavailable", ErrPropertyUnavailable, "property_unavailable", http.StatusConflict},
		{"storage", Storage("inserting booking", driverErr), "storage", http.StatusInternalServerError},
		{"unknown", driverErr, "storage", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.wantCode {
				t.Errorf("Code() = %q, want %q", got, tt.wantCode)
			}
			if got := HTTPStatus(tt.err); got != tt.wantStatus {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.wantStatus)
			}
		})
	}
}

func TestStorageKeepsCause(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed")
	err := Storage("inserting rewards", cause)

	if !errors.Is(err, ErrStorage) {
		t.Error("expected ErrStorage")
	}
	if !errors.Is(err, cause) {
		t.Error("expected underlying cause to be preserved")
	}
	if again := Storage("outer", err); again != err {
		t.Error("expected storage error not to be wrapped twice")
	}
	if got := Storage("booking", ErrPropertyUnavailable); got != ErrPropertyUnavailable {
		t.Errorf("Storage(ErrPropertyUnavailable) = %v, want it unchanged", got)
	}
	if Storage("noop", nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{Validation("email and first name are required"), "Email and first name are required."},
		{ErrRenterNotFound, "Renter does not exist. Please register renter first."},
		{ErrPropertyNotFound, "Property not found."},
		{ErrPropertyUnavailable, "Property is not available."},
		{Storage("commit", errors.New("boom")), "Something went wrong while saving. Please try again."},
	}

	for _, tt := range tests {
		if got := Message(tt.err); got != tt.want {
			t.Errorf("Message(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
