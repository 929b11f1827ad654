package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// BaseURL is the public Nominatim search endpoint.
const BaseURL = "https://nominatim.openstreetmap.org/search"

// Result holds structured data from a Nominatim response.
type Result struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"display_name"`
}

// Client wraps the Nominatim geocoding API. The public instance enforces an
// absolute limit of one request per second and requires an identifying
// User-Agent; the limiter lives in the client so no caller can exceed it.
type Client struct {
	userAgent  string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a geocoding client. userAgent must identify this
// application per the Nominatim usage policy.
func NewClient(userAgent string) *Client {
	return &Client{
		userAgent: userAgent,
		baseURL:   BaseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// SetDelay adjusts the minimum interval between requests. The public
// Nominatim instance requires at least one second; shorter intervals are
// only safe against a self-hosted instance.
func (c *Client) SetDelay(d time.Duration) {
	if d <= 0 {
		return
	}
	c.limiter.SetLimit(rate.Every(d))
}

// Nominatim returns lat/lon as strings.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode converts a citation location string into coordinates. The city
// suffix keeps ambiguous street addresses inside San Francisco.
func (c *Client) Geocode(ctx context.Context, location string) (*Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", location+", San Francisco, CA")
	params.Set("format", "json")
	params.Set("limit", "1")

	u := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding API returned HTTP %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no results for %q", location)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing lat %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing lon %q: %w", results[0].Lon, err)
	}

	return &Result{
		Lat:         lat,
		Lng:         lng,
		DisplayName: results[0].DisplayName,
	}, nil
}
