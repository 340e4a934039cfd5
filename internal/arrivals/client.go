// Package arrivals talks to the remote arrivals API.
package arrivals

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/thevedantmod/stand-clear/internal/model"
)

const (
	// DefaultBaseURL is the hosted arrivals API.
	DefaultBaseURL = "https://stand-clear.vercel.app"
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	arrivalsPath = "/api/arrivals/"
	maxBodyBytes = 4 << 20
)

// Client fetches arrivals for a platform.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	logger    zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for the API at baseURL. An empty baseURL
// selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API base the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL builds the request URL for a platform.
func (c *Client) URL(req model.PlatformRequest) string {
	q := url.Values{}
	q.Set("line", req.Line)
	q.Set("stop_id", req.StopID)
	q.Set("N", req.Limit())
	return c.baseURL + arrivalsPath + "?" + q.Encode()
}

// Fetch returns the arrivals for req in the order the API sent them.
// A successful response whose body is not a JSON array yields an empty
// slice rather than an error.
func (c *Client) Fetch(ctx context.Context, req model.PlatformRequest) ([]model.Arrival, error) {
	target := c.URL(req)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("line", req.Line).
		Str("stop_id", req.StopID).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("arrivals response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{URL: target, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}
	return Decode(body)
}

// Decode parses an arrivals response body. Bodies that are valid JSON but
// not an array decode to an empty slice.
func Decode(body []byte) ([]model.Arrival, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &DecodeError{Err: err}
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []model.Arrival{}, nil
	}

	var arrivals []model.Arrival
	if err := json.Unmarshal(trimmed, &arrivals); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if arrivals == nil {
		arrivals = []model.Arrival{}
	}
	return arrivals, nil
}
