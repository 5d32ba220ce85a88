// Package geocode resolves free-text addresses against a Google-style
// geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/placedir/places-server/internal/apperror"
	"github.com/placedir/places-server/internal/model"
)

var _ model.Geocoder = (*Client)(nil)

// Client calls the geocoding provider over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a geocoding client for the given endpoint and API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location model.Location `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve returns the coordinates of the first candidate for the address.
// An empty result set is a client-input error; provider failures propagate
// unretried.
func (c *Client) Resolve(ctx context.Context, address string) (model.Location, error) {
	query := url.Values{}
	query.Set("address", address)
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return model.Location{}, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return model.Location{}, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Location{}, fmt.Errorf("geocode provider returned status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.Location{}, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if body.Status == "ZERO_RESULTS" || len(body.Results) == 0 {
		return model.Location{}, apperror.Validation("could not find location for the specified address")
	}

	return body.Results[0].Geometry.Location, nil
}
