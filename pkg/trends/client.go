// Package trends fetches search-interest series for a subject over a fixed
// trailing window of weeks. Trend data is produced once per request and
// never cached.
package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://trends.googleapis.example.com"
	defaultWeeks       = 12
	defaultHTTPTimeout = 20 * time.Second
)

// Point is one sampled interest value.
type Point struct {
	Date     time.Time `json:"date"`
	Interest float64   `json:"interest"`
}

// Series is the interest-over-time result for one term.
type Series struct {
	Term   string  `json:"term"`
	Points []Point `json:"points"`
}

// timelineResponse mirrors the interest-over-time widget payload: epoch
// seconds as strings and a value array per sample.
type timelineResponse struct {
	Default struct {
		TimelineData []struct {
			Time  string    `json:"time"`
			Value []float64 `json:"value"`
		} `json:"timelineData"`
	} `json:"default"`
}

// Client queries the interest-over-time endpoint.
type Client struct {
	baseURL    string
	weeks      int
	httpClient *http.Client
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient constructs a trends client from config.
func NewClient(cfg *Config, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		weeks:      cfg.Weeks,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}
	if cfg.BaseURL != "" {
		c.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// InterestOverTime returns the term's search interest for the trailing
// configured weeks. An empty timeline is an error; the caller's fan-out
// captures it as that task's failure.
func (c *Client) InterestOverTime(ctx context.Context, term string) (*Series, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -7*c.weeks)

	q := url.Values{}
	q.Set("term", term)
	q.Set("start", start.Format("2006-01-02"))
	q.Set("end", end.Format("2006-01-02"))

	endpoint := fmt.Sprintf("%s/interest?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("trends: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trends: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("trends: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trends: http status %d", resp.StatusCode)
	}

	var decoded timelineResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("trends: decode response: %w", err)
	}
	if len(decoded.Default.TimelineData) == 0 {
		return nil, fmt.Errorf("trends: no data for term %q", term)
	}

	points := make([]Point, 0, len(decoded.Default.TimelineData))
	for _, sample := range decoded.Default.TimelineData {
		secs, err := strconv.ParseInt(sample.Time, 10, 64)
		if err != nil || len(sample.Value) == 0 {
			continue
		}
		points = append(points, Point{
			Date:     time.Unix(secs, 0).UTC(),
			Interest: sample.Value[0],
		})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("trends: no usable samples for term %q", term)
	}
	return &Series{Term: term, Points: points}, nil
}
