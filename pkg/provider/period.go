package provider

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is a lookback window expressed as "<N>mo" (months) or "<N>y"
// (years) back from now, e.g. "6mo" or "1y".
type Period struct {
	raw  string
	days int
}

// ParsePeriod validates and parses a period string.
func ParsePeriod(s string) (Period, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	var n int
	var unit string
	switch {
	case strings.HasSuffix(trimmed, "mo"):
		n, _ = strconv.Atoi(strings.TrimSuffix(trimmed, "mo"))
		unit = "mo"
	case strings.HasSuffix(trimmed, "y"):
		n, _ = strconv.Atoi(strings.TrimSuffix(trimmed, "y"))
		unit = "y"
	default:
		return Period{}, fmt.Errorf("provider: unsupported period %q, use forms like 6mo or 1y", s)
	}
	if n <= 0 {
		return Period{}, fmt.Errorf("provider: unsupported period %q, use forms like 6mo or 1y", s)
	}
	days := n * 30
	if unit == "y" {
		days = n * 365
	}
	return Period{raw: trimmed, days: days}, nil
}

// MustParsePeriod is ParsePeriod for known-good literals.
func MustParsePeriod(s string) Period {
	p, err := ParsePeriod(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Bounds returns the [start, end] date range the period covers, ending now.
func (p Period) Bounds(now time.Time) (start, end time.Time) {
	end = now.UTC()
	return end.AddDate(0, 0, -p.days), end
}

func (p Period) String() string { return p.raw }
