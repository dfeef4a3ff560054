// Package geocode resolves coordinates into human-readable addresses via a
// Nominatim-compatible reverse-geocoding endpoint. The collaborator is a
// black box: it either returns a display name or the lookup fails and the
// caller falls back to manual address entry.
package geocode

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client queries a reverse-geocoding endpoint.
type Client struct {
	http *resty.Client
}

// reverseResponse is the subset of the endpoint's JSON body we read.
type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

// NewClient creates a Client against the given base URL
// (e.g. https://nominatim.openstreetmap.org).
func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(5 * time.Second).
			SetHeader("User-Agent", "back2u/1.0"),
	}
}

// Reverse resolves lat/lon into a display address. An empty address with a
// non-nil error means the lookup failed; callers degrade to manual entry.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	var body reverseResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":    fmt.Sprintf("%f", lat),
			"lon":    fmt.Sprintf("%f", lon),
			"format": "json",
		}).
		SetResult(&body).
		Get("/reverse")
	if err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("reverse geocode: status %s", resp.Status())
	}
	if body.DisplayName == "" {
		return "", fmt.Errorf("reverse geocode: no display name for %f,%f", lat, lon)
	}
	return body.DisplayName, nil
}
