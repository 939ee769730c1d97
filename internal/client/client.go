// Package client provides an HTTP client for the rental-booker REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evcraddock/rental-booker/internal/booking"
	"github.com/evcraddock/rental-booker/internal/dashboard"
	"github.com/evcraddock/rental-booker/internal/property"
	"github.com/evcraddock/rental-booker/internal/renter"
)

// Client is an HTTP client for the rental-booker API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// SearchOptions controls filtering for SearchProperties.
type SearchOptions struct {
	City          string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	OnlyAvailable bool
}

// RegisterRenter registers or updates a renter.
func (c *Client) RegisterRenter(ctx context.Context, in renter.RegisterInput) (*renter.Profile, error) {
	var p renter.Profile
	if err := c.post(ctx, "/api/renters", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchProperties returns properties matching opts.
func (c *Client) SearchProperties(ctx context.Context, opts SearchOptions) ([]*property.Property, error) {
	params := url.Values{}
	if opts.City != "" {
		params.Set("city", opts.City)
	}
	if opts.MinPrice != nil {
		params.Set("min_price", opts.MinPrice.String())
	}
	if opts.MaxPrice != nil {
		params.Set("max_price", opts.MaxPrice.String())
	}
	if opts.OnlyAvailable {
		params.Set("only_available", "true")
	}

	path := "/api/properties"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var props []*property.Property
	if err := c.get(ctx, path, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// GetProperty returns one property.
func (c *Client) GetProperty(ctx context.Context, id int64) (*property.Property, error) {
	var p property.Property
	if err := c.get(ctx, fmt.Sprintf("/api/properties/%d", id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateBooking books a property.
func (c *Client) CreateBooking(ctx context.Context, req booking.Request) (*booking.Result, error) {
	var res booking.Result
	if err := c.post(ctx, "/api/bookings", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Dashboard returns a renter's profile, bookings and points.
func (c *Client) Dashboard(ctx context.Context, email string) (*dashboard.Dashboard, error) {
	var d dashboard.Dashboard
	if err := c.get(ctx, "/api/renters/"+url.PathEscape(email)+"/dashboard", &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Health checks that the server and its database answer.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health", nil)
}

// get performs a GET request and decodes the response.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// do executes an HTTP request and turns error bodies into *APIError.
func (c *Client) do(req *http.Request, result interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing response body", "error", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errResp struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
			apiErr.Code = errResp.Code
		} else {
			apiErr.Message = fmt.Sprintf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
