// Package http provides the HTTP implementation of pyrip.Scraper and
// pyrip.CrawlService, built on resty. It performs authenticated exchanges
// against the Pyrip API and classifies HTTP failures into typed errors.
package http

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/fwojciec/pyrip"
	pyripslog "github.com/fwojciec/pyrip/slog"
)

// DefaultBaseURL is the production API endpoint used when no base URL is
// configured explicitly or via environment.
const DefaultBaseURL = "https://api.pyrip.dev"

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 30 * time.Second

// Environment variables consulted when the corresponding option is not set.
// An explicit option always takes precedence.
const (
	EnvAPIKey = "PYRIP_API_KEY"
	EnvAPIURL = "PYRIP_API_URL"
)

// Ensure Client implements the domain interfaces at compile time.
var (
	_ pyrip.Scraper      = (*Client)(nil)
	_ pyrip.CrawlService = (*Client)(nil)
)

// Client is an authenticated Pyrip API client. Instances are safe for
// concurrent use.
type Client struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *slog.Logger

	http *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the API key, overriding the PYRIP_API_KEY environment
// variable.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithBaseURL sets the API base URL, overriding the PYRIP_API_URL
// environment variable and the production default.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets the per-request timeout.
// Defaults to DefaultTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit throttles outgoing requests to rps requests per second
// with a burst of 1. No throttling is applied by default.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithLogger sets the logger for this client.
// Defaults to the process-wide logger if not specified.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Pyrip API client. A missing API key is a fatal
// configuration error: EINVALID is returned and no network call is ever
// issued.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" {
		c.apiKey = os.Getenv(EnvAPIKey)
	}
	if c.apiKey == "" {
		return nil, pyrip.Errorf(pyrip.EINVALID, "no API key provided")
	}
	if c.baseURL == "" {
		c.baseURL = os.Getenv(EnvAPIURL)
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	if c.logger == nil {
		c.logger = pyripslog.Default()
	}

	client := resty.New()
	client.SetBaseURL(c.baseURL)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Authorization", "Bearer "+c.apiKey)
	client.SetTimeout(c.timeout)
	if c.limiter != nil {
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return c.limiter.Wait(req.Context())
		})
	}
	c.http = client

	c.logger.Debug("initialized pyrip client", "baseURL", c.baseURL)

	return c, nil
}

// BaseURL returns the resolved API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIKey returns the resolved API key. Exposed so a websocket watcher can
// share the client's credentials.
func (c *Client) APIKey() string {
	return c.apiKey
}
