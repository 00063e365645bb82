package ephem

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/version"
)

const (
	// DefaultBaseURL is where the ephemeris service listens by default.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 30 * time.Second

	// DefaultRate caps outgoing requests per second.
	DefaultRate = 8

	// DefaultBurst is the limiter bucket size.
	DefaultBurst = 4

	maxBodyBytes = 4 << 20
)

// StatusError is returned when the service answers with a non-200 status.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status code: %d", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("%s: unexpected status code: %d: %s", e.Endpoint, e.Code, e.Body)
}

// Client talks to the ephemeris service over HTTP.
type Client struct {
	client   *http.Client
	baseURL  string
	timeout  time.Duration
	limiter  *rate.Limiter
	recorder Recorder
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the service base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithRateLimit sets the request rate and burst. A zero rate disables
// limiting.
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithRecorder attaches a per-request outcome recorder.
func WithRecorder(r Recorder) ClientOption {
	return func(c *Client) {
		c.recorder = r
	}
}

// NewClient creates a new ephemeris client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		limiter: rate.NewLimiter(DefaultRate, DefaultBurst),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// BaseURL returns the configured service URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Planets implements Source.
func (c *Client) Planets(ctx context.Context) ([]string, error) {
	var resp planetsResponse
	if err := c.getJSON(ctx, EndpointPlanets, "/planets", &resp); err != nil {
		return nil, err
	}
	return resp.Planets, nil
}

// Positions implements Source.
func (c *Client) Positions(ctx context.Context, date time.Time) ([]astro.Observation, error) {
	var resp positionsResponse
	path := "/positions/" + url.PathEscape(astro.FormatDate(date))
	if err := c.getJSON(ctx, EndpointPositions, path, &resp); err != nil {
		return nil, err
	}
	if resp.Positions == nil {
		return []astro.Observation{}, nil
	}
	return resp.Positions, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, out interface{}) (err error) {
	start := time.Now()
	if c.recorder != nil {
		defer func() {
			c.recorder.ObserveFetch(endpoint, time.Since(start), err)
		}()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: rate limit: %w", endpoint, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", endpoint, err)
	}

	req.Header.Set("User-Agent", "ls-orrery/"+version.Version)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: fetch: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: read response body: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode JSON: %w", endpoint, err)
	}

	return nil
}
