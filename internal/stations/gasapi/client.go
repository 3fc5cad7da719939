// Package gasapi provides a client for the GasFinder backend API.
package gasapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL points at a local backend instance; deployments override
	// it through configuration.
	DefaultBaseURL = "http://localhost:5000"

	// DefaultNearbyRadiusKm is used when the caller does not supply a radius.
	DefaultNearbyRadiusKm = 25
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL without the /api suffix
	// (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a plain http.Client with
	// Timeout is used. Calls are never retried: the coordinator surfaces
	// failures to the user with a retry affordance instead.
	HTTPClient HTTPDoer

	// Timeout for individual requests when HTTPClient is nil (default: 15s).
	Timeout time.Duration

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client talks to the GasFinder backend.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new backend client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// List fetches stations, optionally filtered by free-text query or status.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]StationRecord, error) {
	q := url.Values{}
	if opts.Query != "" {
		q.Set("query", opts.Query)
	}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}

	endpoint := c.baseURL + "/api/stations"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var records []StationRecord
	if err := c.get(ctx, "list stations", endpoint, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Nearby fetches stations within radiusKm of the given point, each annotated
// with a backend-computed distance and sorted closest first.
func (c *Client) Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]StationRecord, error) {
	if radiusKm <= 0 {
		radiusKm = DefaultNearbyRadiusKm
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("radius", strconv.FormatFloat(radiusKm, 'f', -1, 64))

	endpoint := c.baseURL + "/api/stations/nearby?" + q.Encode()

	var records []StationRecord
	if err := c.get(ctx, "list nearby stations", endpoint, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Get fetches a single station by ID.
func (c *Client) Get(ctx context.Context, id int64) (*StationRecord, error) {
	endpoint := fmt.Sprintf("%s/api/stations/%d", c.baseURL, id)

	var record StationRecord
	if err := c.get(ctx, "get station", endpoint, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Create registers a new station and returns the created record, including
// its backend-assigned ID.
func (c *Client) Create(ctx context.Context, req CreateStationRequest) (*StationRecord, error) {
	endpoint := c.baseURL + "/api/stations"

	var record StationRecord
	if err := c.send(ctx, "create station", http.MethodPost, endpoint, req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Update applies a partial update to a station and returns the updated record.
func (c *Client) Update(ctx context.Context, id int64, req UpdateStationRequest) (*StationRecord, error) {
	endpoint := fmt.Sprintf("%s/api/stations/%d", c.baseURL, id)

	var record StationRecord
	if err := c.send(ctx, "update station", http.MethodPut, endpoint, req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete removes a station.
func (c *Client) Delete(ctx context.Context, id int64) error {
	endpoint := fmt.Sprintf("%s/api/stations/%d", c.baseURL, id)
	return c.send(ctx, "delete station", http.MethodDelete, endpoint, nil, nil)
}

// get issues a GET request and decodes the response into out.
func (c *Client) get(ctx context.Context, op, endpoint string, out any) error {
	return c.send(ctx, op, http.MethodGet, endpoint, nil, out)
}

// send issues a request with an optional JSON body, classifying failures as
// NetworkError or StatusError per the client contract.
func (c *Client) send(ctx context.Context, op, method, endpoint string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", op, err)
		}
		reqBody = bytes.NewReader(encoded)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Op: op, StatusCode: resp.StatusCode}

		var envelope errorBody
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
			statusErr.Message = envelope.Error
		}

		c.logger.Debug().
			Str("op", op).
			Int("status", resp.StatusCode).
			Str("message", statusErr.Message).
			Msg("backend returned error status")

		return statusErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", op, err)
	}
	return nil
}
