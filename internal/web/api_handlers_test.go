package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/evcraddock/rental-booker/internal/booking"
	"github.com/evcraddock/rental-booker/internal/dashboard"
	"github.com/evcraddock/rental-booker/internal/property"
	"github.com/evcraddock/rental-booker/internal/renter"
)

func apiRequest(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	r := httptest.NewRequest(method, path, reqBody)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestAPIRegisterRenter(t *testing.T) {
	srv := testServer(t)

	w := apiRequest(t, srv, "POST", "/api/renters", renter.RegisterInput{
		Email:      "api@example.com",
		FirstName:  "Api",
		MoveInDate: "2026-09-01",
		Budget:     "1800.00",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var p renter.Profile
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Email != "api@example.com" || p.FirstName != "Api" {
		t.Errorf("profile = %+v", p)
	}
	if p.Budget.Decimal.String() != "1800" {
		t.Errorf("budget = %s, want 1800", p.Budget.Decimal)
	}
}

func TestAPIRegisterRenterErrors(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"blank name", `{"email":"a@example.com","first_name":""}`, http.StatusBadRequest, "validation"},
		{"malformed json", `{"email":`, http.StatusBadRequest, "validation"},
		{"unknown field", `{"email":"a@example.com","first_name":"A","age":3}`, http.StatusBadRequest, "validation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/renters", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, r)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if got := decodeError(t, w)["code"]; got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestAPISearchProperties(t *testing.T) {
	srv, d := testServerWithDB(t)
	insertTestProperty(t, d, 1, "Austin", "1200.00", true, "apartment")
	insertTestProperty(t, d, 2, "Austin", "800.00", false, "commercial_building")
	insertTestProperty(t, d, 3, "Boston", "3000.00", true, "house")

	w := apiRequest(t, srv, "GET", "/api/properties?city=AUSTIN", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var props []*property.Property
	if err := json.Unmarshal(w.Body.Bytes(), &props); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(props) != 2 {
		t.Fatalf("got %d properties, want 2", len(props))
	}
	if props[0].ID != 2 || props[0].Kind != property.KindCommercialBuilding {
		t.Errorf("first = %+v, want cheaper commercial building first", props[0])
	}

	w = apiRequest(t, srv, "GET", "/api/properties?city=austin&only_available=true", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &props); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(props) != 1 || props[0].ID != 1 {
		t.Errorf("available = %+v", props)
	}
}

func TestAPISearchPropertiesEmptyIsArray(t *testing.T) {
	srv := testServer(t)

	w := apiRequest(t, srv, "GET", "/api/properties", nil)
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("body = %q, want []", w.Body.String())
	}
}

func TestAPISearchPropertiesBadPrice(t *testing.T) {
	srv := testServer(t)

	w := apiRequest(t, srv, "GET", "/api/properties?max_price=lots", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if msg := decodeError(t, w)["error"]; msg != "Maximum price must be a number." {
		t.Errorf("error = %q", msg)
	}
}

func TestAPIGetProperty(t *testing.T) {
	srv, d := testServerWithDB(t)
	insertTestProperty(t, d, 5, "Tahoe", "450.00", true, "vacation_house")

	tests := []struct {
		path   string
		status int
	}{
		{"/api/properties/5", http.StatusOK},
		{"/api/properties/99", http.StatusNotFound},
		{"/api/properties/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := apiRequest(t, srv, "GET", tt.path, nil)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}

	w := apiRequest(t, srv, "GET", "/api/properties/5", nil)
	if !strings.Contains(w.Body.String(), `"property_type":"Vacation House"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestAPICreateBooking(t *testing.T) {
	srv, d := testServerWithDB(t)
	insertTestRenter(t, d, "ren@example.com", "Ren")
	insertTestProperty(t, d, 1, "Miami", "9500000.00", true, "house")

	req := booking.Request{RenterEmail: "ren@example.com", PropertyID: 1, CardNumber: "4111", ExpirationDate: "2029-12-31"}
	w := apiRequest(t, srv, "POST", "/api/bookings", req)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var res booking.Result
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.BookingID != 1 || res.Points != 95000 {
		t.Errorf("result = %+v", res)
	}

	w = apiRequest(t, srv, "POST", "/api/bookings", req)
	if w.Code != http.StatusConflict {
		t.Errorf("second booking status = %d, want %d", w.Code, http.StatusConflict)
	}
	if code := decodeError(t, w)["code"]; code != "property_unavailable" {
		t.Errorf("code = %q", code)
	}

	w = apiRequest(t, srv, "GET", "/api/renters/ren@example.com/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", w.Code)
	}
	var dash dashboard.Dashboard
	if err := json.Unmarshal(w.Body.Bytes(), &dash); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if dash.TotalPoints != 95000 || len(dash.Bookings) != 1 {
		t.Errorf("dashboard = %+v", dash)
	}
}

func TestAPICreateBookingErrors(t *testing.T) {
	srv, d := testServerWithDB(t)
	insertTestRenter(t, d, "ren@example.com", "Ren")

	tests := []struct {
		name   string
		req    booking.Request
		status int
		code   string
	}{
		{"unknown renter", booking.Request{RenterEmail: "x@example.com", PropertyID: 1, CardNumber: "4111"}, http.StatusNotFound, "renter_not_found"},
		{"unknown property", booking.Request{RenterEmail: "ren@example.com", PropertyID: 1, CardNumber: "4111"}, http.StatusNotFound, "property_not_found"},
		{"missing card", booking.Request{RenterEmail: "ren@example.com", PropertyID: 1}, http.StatusBadRequest, "validation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := apiRequest(t, srv, "POST", "/api/bookings", tt.req)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if code := decodeError(t, w)["code"]; code != tt.code {
				t.Errorf("code = %q, want %q", code, tt.code)
			}
		})
	}
}

func TestAPIDashboardUnknownRenter(t *testing.T) {
	srv := testServer(t)

	w := apiRequest(t, srv, "GET", "/api/renters/ghost@example.com/dashboard", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if msg := decodeError(t, w)["error"]; msg != "Renter does not exist. Please register renter first." {
		t.Errorf("error = %q", msg)
	}
}

func TestAPIUnknownRoute(t *testing.T) {
	srv := testServer(t)

	w := apiRequest(t, srv, "GET", "/api/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if code := decodeError(t, w)["code"]; code != "not_found" {
		t.Errorf("code = %q", code)
	}
}
