// Package tiingo implements the Tiingo end-of-day prices source. It is the
// low-latency primary in the default chain.
package tiingo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finlens-api/pkg/provider"
	"finlens-api/pkg/quote"
)

const (
	defaultBaseURL     = "https://api.tiingo.com"
	defaultHTTPTimeout = 20 * time.Second
)

func init() {
	provider.Register("tiingo", func(name string, cfg *provider.ProviderConfig) (provider.Provider, error) {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("tiingo: api_key is required (set TIINGO_API_KEY)")
		}
		opts := []Option{WithAPIKey(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, WithBaseURL(cfg.BaseURL))
		}
		if cfg.HTTPTimeout > 0 {
			opts = append(opts, WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		}
		return NewClient(name, opts...), nil
	})
}

// Client talks to the Tiingo daily prices endpoint.
type Client struct {
	name       string
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a new Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithAPIKey sets the API token.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient constructs a Tiingo client under the given source name.
func NewClient(name string, opts ...Option) *Client {
	c := &Client{
		name:       name,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the configured source name.
func (c *Client) Name() string { return c.name }

// FetchDaily pulls daily prices for the period. Tiingo responds with an
// array of objects keyed by lower-camel field names (date, close, adjClose,
// high, low, open, volume); the raw keys pass through untouched for the
// normalizer to reconcile.
func (c *Client) FetchDaily(ctx context.Context, instrument string, period provider.Period) (*quote.Table, error) {
	start, end := period.Bounds(time.Now())

	q := url.Values{}
	q.Set("startDate", start.Format("2006-01-02"))
	q.Set("endDate", end.Format("2006-01-02"))
	q.Set("format", "json")
	q.Set("resampleFreq", "daily")
	q.Set("token", c.apiKey)

	endpoint := fmt.Sprintf("%s/tiingo/daily/%s/prices?%s",
		c.baseURL, url.PathEscape(strings.ToUpper(instrument)), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("tiingo: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &provider.TransientError{Source: c.name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.TransientError{Source: c.name, Err: fmt.Errorf("read response: %w", err)}
	}
	if retriableStatus(resp.StatusCode) {
		return nil, provider.Transientf(c.name, "http status %d: %s", resp.StatusCode, truncate(body))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tiingo: http status %d: %s", resp.StatusCode, truncate(body))
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("tiingo: decode response: %w", err)
	}
	if len(rows) == 0 {
		return nil, provider.Transientf(c.name, "empty payload for %s %s", instrument, period)
	}
	return quote.TableFromMaps(rows), nil
}

func retriableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusRequestTimeout:
		return true
	}
	return code >= 500
}

func truncate(body []byte) string {
	const max = 120
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
