package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		in   string
		days int
	}{
		{"6mo", 180},
		{"1y", 365},
		{"12mo", 360},
		{"2Y", 730},
		{" 3mo ", 90},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			p, err := ParsePeriod(tc.in)
			require.NoError(t, err)
			now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
			start, end := p.Bounds(now)
			require.Equal(t, now, end)
			require.Equal(t, now.AddDate(0, 0, -tc.days), start)
		})
	}
}

func TestParsePeriodRejectsUnknownForms(t *testing.T) {
	for _, in := range []string{"", "6", "6d", "mo", "0mo", "-1y", "sixmo"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParsePeriod(in)
			require.Error(t, err)
		})
	}
}
