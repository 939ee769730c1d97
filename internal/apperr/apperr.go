// Package apperr defines the error kinds surfaced by rental-booker workflows.
//
// Workflows wrap one of the sentinel errors below so callers can branch with
// errors.Is and turn any failure into a user-visible message or HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrValidation marks missing or malformed input, detected before any storage access.
	ErrValidation = errors.New("invalid input")
	// ErrRenterNotFound means no renter row exists for the given email.
	ErrRenterNotFound = errors.New("renter not found")
	// ErrPropertyNotFound means no property row exists for the given id.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrPropertyUnavailable means the property is already booked.
	ErrPropertyUnavailable = errors.New("property is not available")
	// ErrStorage wraps any underlying query or transaction failure.
	ErrStorage = errors.New("storage failure")
)

// Validation returns an ErrValidation carrying a human-readable reason.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Storage wraps err as a storage failure for the named operation.
// A nil err stays nil and errors that already carry a kind are returned as is.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorage) || Code(err) != "storage" {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// Code returns a stable short identifier for err, used in JSON bodies and metric labels.
func Code(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrRenterNotFound):
		return "renter_not_found"
	case errors.Is(err, ErrPropertyNotFound):
		return "property_not_found"
	case errors.Is(err, ErrPropertyUnavailable):
		return "property_unavailable"
	default:
		return "storage"
	}
}

// HTTPStatus maps err to the response status used by the JSON API.
func HTTPStatus(err error) int {
	switch Code(err) {
	case "ok":
		return http.StatusOK
	case "validation":
		return http.StatusBadRequest
	case "renter_not_found", "property_not_found":
		return http.StatusNotFound
	case "property_unavailable":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text shown to the user for err.
func Message(err error) string {
	switch Code(err) {
	case "ok":
		return ""
	case "validation":
		// Keep the reason, drop the sentinel prefix.
		msg := strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
		return upperFirst(msg) + "."
	case "renter_not_found":
		return "Renter does not exist. Please register renter first."
	case "property_not_found":
		return "Property not found."
	case "property_unavailable":
		return "Property is not available."
	default:
		return "Something went wrong while saving. Please try again."
	}
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
