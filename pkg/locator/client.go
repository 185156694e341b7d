// Package locator provides a client for the maps.churchofjesuschrist.org
// locations identify API.
package locator

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/chambersfam/locator-cli/internal/model"
	"github.com/chambersfam/locator-cli/internal/resilience"
)

const (
	// DefaultBaseURL is the production locator proxy endpoint.
	DefaultBaseURL = "https://maps.churchofjesuschrist.org/api/maps-proxy/v2"

	// DefaultReferer is required by the locator proxy; requests without
	// it are rejected.
	DefaultReferer = "https://maps.churchofjesuschrist.org/"

	// DefaultPageSize is the nearest-N cap used when paging results.
	DefaultPageSize = 2000
)

// Query holds the identify endpoint parameters.
type Query struct {
	// Layers selects the record layer, e.g. "MEETINGHOUSE", "WARD",
	// "STAKE", or a specialized layer like "WARD__YSA".
	Layers string

	// Filters is the raw filters parameter, usually empty.
	Filters string

	// Associated requests embedded associated records, e.g. "WARDS"
	// on the MEETINGHOUSE layer.
	Associated string

	// Lat and Lon anchor the nearest-N search.
	Lat float64
	Lon float64

	// Nearest caps the number of records a single identify call returns.
	Nearest int

	// PageSize overrides DefaultPageSize for paged fetches.
	PageSize int
}

// Client talks to the locator identify API.
type Client interface {
	// IdentifyBuildings issues one identify call on a building layer.
	IdentifyBuildings(ctx context.Context, q Query) ([]model.Building, error)

	// IdentifyUnits issues one identify call on a unit layer.
	IdentifyUnits(ctx context.Context, q Query) ([]model.Unit, error)

	// FetchAllBuildings pages through building results until the
	// service returns an empty page, deduplicating by record ID.
	FetchAllBuildings(ctx context.Context, q Query) ([]model.Building, error)
}

// Option configures the client.
type Option func(*client)

// WithBaseURL overrides the locator endpoint (used in tests).
func WithBaseURL(u string) Option {
	return func(c *client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second limit for identify calls.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetry overrides the retry configuration.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *client) {
		c.retry = cfg
	}
}

type client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      resilience.RetryConfig
}

// NewClient creates a locator Client with the given options.
func NewClient(opts ...Option) Client {
	c := &client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		limiter:    rate.NewLimiter(2, 1), // be polite to the proxy
		retry:      resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.retry.OnRetry = resilience.RetryLogger("locator", "identify")
	return c
}
