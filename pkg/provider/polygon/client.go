// Package polygon implements the Polygon.io daily aggregates source, the
// default fallback behind Tiingo. Slower, but explicitly queryable by date
// range.
package polygon

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
	defaultBaseURL     = "https://api.polygon.io"
	defaultHTTPTimeout = 20 * time.Second
	resultLimit        = 50000
)

func init() {
	provider.Register("polygon", func(name string, cfg *provider.ProviderConfig) (provider.Provider, error) {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("polygon: api_key is required (set POLYGON_API_KEY)")
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

// aggsResponse is the envelope around Polygon aggregate bars. Bars carry
// single-letter keys: t (epoch ms), o, h, l, c, v.
type aggsResponse struct {
	Status  string           `json:"status"`
	Results []map[string]any `json:"results"`
}

// Client talks to the Polygon v2 aggregates endpoint.
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

// WithAPIKey sets the API key.
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

// NewClient constructs a Polygon client under the given source name.
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

// FetchDaily pulls adjusted daily bars for the period.
func (c *Client) FetchDaily(ctx context.Context, instrument string, period provider.Period) (*quote.Table, error) {
	start, end := period.Bounds(time.Now())

	q := url.Values{}
	q.Set("adjusted", "true")
	q.Set("sort", "asc")
	q.Set("limit", fmt.Sprintf("%d", resultLimit))
	q.Set("apiKey", c.apiKey)

	endpoint := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s?%s",
		c.baseURL,
		url.PathEscape(strings.ToUpper(instrument)),
		start.Format("2006-01-02"),
		end.Format("2006-01-02"),
		q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("polygon: build request: %w", err)
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
		return nil, fmt.Errorf("polygon: http status %d: %s", resp.StatusCode, truncate(body))
	}

	var decoded aggsResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("polygon: decode response: %w", err)
	}
	if len(decoded.Results) == 0 {
		return nil, provider.Transientf(c.name, "empty payload for %s %s", instrument, period)
	}
	return quote.TableFromMaps(decoded.Results), nil
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
