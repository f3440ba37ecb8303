package trends

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func configFor(t *testing.T, baseURL string) *Config {
	t.Helper()
	cfg, err := LoadConfigFromReader(strings.NewReader("base_url: " + baseURL))
	require.NoError(t, err)
	return cfg
}

func TestInterestOverTimeParsesTimeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "nvidia", r.URL.Query().Get("term"))
		w.Write([]byte(`{"default":{"timelineData":[
			{"time":"1748822400","value":[41]},
			{"time":"1749427200","value":[58]}
		]}}`))
	}))
	defer srv.Close()

	c := NewClient(configFor(t, srv.URL))
	s, err := c.InterestOverTime(context.Background(), "nvidia")
	require.NoError(t, err)
	require.Equal(t, "nvidia", s.Term)
	require.Len(t, s.Points, 2)
	require.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), s.Points[0].Date)
	require.Equal(t, 41.0, s.Points[0].Interest)
	require.Equal(t, 58.0, s.Points[1].Interest)
}

func TestInterestOverTimeEmptyTimelineIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"default":{"timelineData":[]}}`))
	}))
	defer srv.Close()

	c := NewClient(configFor(t, srv.URL))
	_, err := c.InterestOverTime(context.Background(), "obscure term")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no data")
}

func TestInterestOverTimeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(configFor(t, srv.URL))
	_, err := c.InterestOverTime(context.Background(), "nvidia")
	require.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := LoadConfigFromReader(strings.NewReader(``))
	require.NoError(t, err)
	require.Equal(t, defaultWeeks, cfg.Weeks)
	require.Equal(t, defaultHTTPTimeout, cfg.HTTPTimeout)
}
