// Package ipapi provides an IP geolocation client backed by the ip-api.com
// JSON endpoint.
package ipapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/gasfinder/gasfinder/internal/location"
	"github.com/gasfinder/gasfinder/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the public ip-api.com endpoint.
	DefaultBaseURL = "http://ip-api.com"

	// ProviderName identifies this resolver.
	ProviderName = "ipapi"

	cacheExpiry  = 30 * time.Minute
	cacheCleanup = time.Hour
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the ip-api client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a resilient client with
	// defaults is used; geolocation is an auxiliary lookup, so retrying it
	// is safe.
	HTTPClient HTTPDoer

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client resolves IP addresses to coordinates, caching results per IP.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
	cache      *gocache.Cache
}

// NewClient creates a new ip-api client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultConfig(ProviderName))
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     cfg.Logger,
		cache:      gocache.New(cacheExpiry, cacheCleanup),
	}
}

// lookupResponse is the ip-api.com JSON payload.
type lookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Resolve looks up the coordinates for the given IP address. Private,
// loopback, and malformed addresses return ErrUnresolvable without touching
// the network.
func (c *Client) Resolve(ctx context.Context, ip string) (*location.Point, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		return nil, location.ErrUnresolvable
	}

	if cached, ok := c.cache.Get(ip); ok {
		point := cached.(location.Point)
		return &point, nil
	}

	endpoint := c.baseURL + "/json/" + url.PathEscape(ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating lookup request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ip lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ip lookup: unexpected status code: %d", resp.StatusCode)
	}

	var result lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding lookup response: %w", err)
	}

	if result.Status != "success" {
		c.logger.Debug().
			Str("ip", ip).
			Str("message", result.Message).
			Msg("ip lookup failed")
		return nil, location.ErrUnresolvable
	}

	point := location.Point{Lat: result.Lat, Lon: result.Lon}
	c.cache.Set(ip, point, gocache.DefaultExpiration)

	return &point, nil
}
