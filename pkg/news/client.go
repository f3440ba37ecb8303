// Package news fetches day-bounded headlines about a subject and reduces
// them to a daily sentiment distribution with a lexical classifier.
package news

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

const defaultBaseURL = "https://newsapi.org"

// article is the subset of the everything-endpoint response we read.
type article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type everythingResponse struct {
	Status   string    `json:"status"`
	Articles []article `json:"articles"`
}

// Client queries the news index's everything endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	pageSize   int
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

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient constructs a headline client from config.
func NewClient(cfg *Config, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     cfg.APIKey,
		language:   cfg.Language,
		pageSize:   cfg.PageSize,
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

// Headlines returns snippet text for articles about subject published
// within [from, to], most relevant first, capped at the configured page
// size. Articles without a description fall back to the title; completely
// empty snippets are kept so the caller's per-day count stays aligned with
// what the provider returned.
func (c *Client) Headlines(ctx context.Context, subject string, from, to time.Time) ([]string, error) {
	q := url.Values{}
	q.Set("q", subject)
	q.Set("from", from.Format("2006-01-02"))
	q.Set("to", to.Format("2006-01-02"))
	q.Set("language", c.language)
	q.Set("sortBy", "relevancy")
	q.Set("pageSize", strconv.Itoa(c.pageSize))
	q.Set("apiKey", c.apiKey)

	endpoint := fmt.Sprintf("%s/v2/everything?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("news: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("news: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news: http status %d", resp.StatusCode)
	}

	var decoded everythingResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("news: decode response: %w", err)
	}

	snippets := make([]string, 0, len(decoded.Articles))
	for _, a := range decoded.Articles {
		text := a.Description
		if text == "" {
			text = a.Title
		}
		snippets = append(snippets, text)
	}
	return snippets, nil
}
