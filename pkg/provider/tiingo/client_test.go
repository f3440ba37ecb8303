package tiingo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"finlens-api/pkg/provider"
	"finlens-api/pkg/quote"
)

const dailyFixture = `[
  {"date":"2025-06-02T00:00:00.000Z","open":100.0,"high":104.0,"low":99.0,"close":103.0,"adjClose":103.0,"volume":1200000},
  {"date":"2025-06-03T00:00:00.000Z","open":103.5,"high":106.0,"low":102.0,"close":105.5,"adjClose":105.5,"volume":950000}
]`

func TestFetchDailyDecodesRows(t *testing.T) {
	var gotPath, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("token")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(dailyFixture))
	}))
	defer srv.Close()

	c := NewClient("tiingo", WithBaseURL(srv.URL), WithAPIKey("test-key"))
	table, err := c.FetchDaily(context.Background(), "nvda", provider.MustParsePeriod("6mo"))
	require.NoError(t, err)
	require.Equal(t, "/tiingo/daily/NVDA/prices", gotPath)
	require.Equal(t, "test-key", gotToken)
	require.Equal(t, 2, table.NumRows())

	s, err := quote.Normalize(table, "tiingo", "NVDA", quote.ShapeOHLC)
	require.NoError(t, err)
	require.Equal(t, 103.0, s.Rows[0].Close)
	require.Equal(t, 104.0, s.Rows[0].High)
}

func TestFetchDailyEmptyPayloadIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient("tiingo", WithBaseURL(srv.URL), WithAPIKey("k"))
	_, err := c.FetchDaily(context.Background(), "ZZZZ", provider.MustParsePeriod("6mo"))
	require.Error(t, err)
	require.True(t, provider.IsTransient(err))
}

func TestFetchDailyStatusMapping(t *testing.T) {
	cases := []struct {
		status    int
		transient bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusNotFound, false},
		{http.StatusUnauthorized, false},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		c := NewClient("tiingo", WithBaseURL(srv.URL), WithAPIKey("k"))
		_, err := c.FetchDaily(context.Background(), "NVDA", provider.MustParsePeriod("6mo"))
		require.Error(t, err, "status %d", tc.status)
		require.Equal(t, tc.transient, provider.IsTransient(err), "status %d", tc.status)
		srv.Close()
	}
}

func TestFetchDailyMalformedBodyIsNotTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"detail":"not an array"}`))
	}))
	defer srv.Close()

	c := NewClient("tiingo", WithBaseURL(srv.URL), WithAPIKey("k"))
	_, err := c.FetchDaily(context.Background(), "NVDA", provider.MustParsePeriod("6mo"))
	require.Error(t, err)
	require.False(t, provider.IsTransient(err))
}

func TestBuilderRequiresAPIKey(t *testing.T) {
	_, err := buildForTest(&provider.ProviderConfig{Type: "tiingo"})
	require.Error(t, err)
}

// buildForTest exercises the registered builder through a minimal config.
func buildForTest(pc *provider.ProviderConfig) (provider.Provider, error) {
	cfg := &provider.Config{
		Chain:     []string{"tiingo"},
		Providers: map[string]*provider.ProviderConfig{"tiingo": pc},
	}
	pc.Type = "tiingo"
	providers, err := cfg.BuildProviders()
	if err != nil {
		return nil, err
	}
	return providers[0], nil
}
