package quote

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// SchemaError reports a raw payload that cannot be reconciled with the
// canonical quote shape. It is never retriable; a fallback chain advances
// to the next provider when it sees one.
type SchemaError struct {
	Source string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("quote: schema error: %s", e.Reason)
	}
	return fmt.Sprintf("quote: schema error from %s: %s", e.Source, e.Reason)
}

// columnCandidates maps each canonical field to provider spellings, tried
// in order. Raw close is preferred over adjusted close; the adjusted
// variants only substitute when no plain close exists.
var columnCandidates = map[string][]string{
	"date":   {"date", "t", "timestamp", "datetime", "time"},
	"open":   {"open", "o"},
	"high":   {"high", "h"},
	"low":    {"low", "l"},
	"close":  {"close", "c", "adjclose", "adj_close", "adjusted_close"},
	"volume": {"volume", "v", "vol"},
}

// Normalize reshapes a provider's raw table into a canonical Series for
// one instrument. It selects the instrument's columns when the payload
// covers several instruments, maps provider field names onto canonical
// ones, drops rows missing a required field, truncates timestamps to
// calendar dates, sorts ascending and de-duplicates by date with the last
// written row winning. The transform is pure and idempotent.
func Normalize(t *Table, source, instrument string, shape Shape) (*Series, error) {
	if !shape.Valid() {
		return nil, &SchemaError{Source: source, Reason: fmt.Sprintf("unknown shape %q", shape)}
	}
	if t.NumRows() == 0 {
		return nil, &SchemaError{Source: source, Reason: "empty payload"}
	}

	view := selectInstrument(t, instrument)

	idx := make(map[string]int, len(columnCandidates))
	for field, candidates := range columnCandidates {
		idx[field] = resolveColumn(view, candidates)
	}

	required := []string{"date", "close"}
	if shape == ShapeOHLC {
		required = append(required, "high", "low")
	}
	for _, field := range required {
		if idx[field] < 0 {
			return nil, &SchemaError{
				Source: source,
				Reason: fmt.Sprintf("no column resolves to %q (have %s)", field, strings.Join(view.Columns, ", ")),
			}
		}
	}

	hasOpen := shape == ShapeOHLC && idx["open"] >= 0
	hasVolume := idx["volume"] >= 0

	type tagged struct {
		row Row
		ord int
	}
	rows := make([]tagged, 0, view.NumRows())
	for ord, rec := range view.Records {
		date, ok := parseDate(rec[idx["date"]])
		if !ok {
			continue
		}
		row := Row{Date: date}
		if row.Close, ok = parseFloat(rec[idx["close"]]); !ok {
			continue
		}
		if shape == ShapeOHLC {
			if row.High, ok = parseFloat(rec[idx["high"]]); !ok {
				continue
			}
			if row.Low, ok = parseFloat(rec[idx["low"]]); !ok {
				continue
			}
		}
		if hasOpen {
			row.Open, row.HasOpen = parseFloat(rec[idx["open"]])
		}
		if hasVolume {
			row.Volume, row.HasVolume = parseFloat(rec[idx["volume"]])
		}
		rows = append(rows, tagged{row: row, ord: ord})
	}
	if len(rows) == 0 {
		return nil, &SchemaError{Source: source, Reason: "no usable rows after dropping incomplete ones"}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].row.Date.Before(rows[j].row.Date)
	})

	out := make([]Row, 0, len(rows))
	for i, r := range rows {
		// Stable sort keeps input order among equal dates, so the last
		// entry of a run is the last written one.
		if i+1 < len(rows) && rows[i+1].row.Date.Equal(r.row.Date) {
			continue
		}
		out = append(out, r.row)
	}

	return &Series{Instrument: instrument, Source: source, Shape: shape, Rows: out}, nil
}

// selectInstrument narrows a multi-instrument payload down to one
// instrument's columns. Providers that batch several instruments qualify
// columns as "<instrument>.<field>"; when such columns exist for the
// requested instrument the view keeps only those, with the prefix
// stripped. Payloads without qualified columns pass through untouched.
func selectInstrument(t *Table, instrument string) *Table {
	prefix := strings.ToLower(instrument) + "."
	var keep []int
	var cols []string
	for i, c := range t.Columns {
		if strings.HasPrefix(strings.ToLower(c), prefix) {
			keep = append(keep, i)
			cols = append(cols, c[len(prefix):])
		}
	}
	if len(keep) == 0 {
		return t
	}
	view := &Table{Columns: cols}
	for _, rec := range t.Records {
		sub := make([]any, len(keep))
		for j, i := range keep {
			sub[j] = rec[i]
		}
		view.Records = append(view.Records, sub)
	}
	return view
}

func resolveColumn(t *Table, candidates []string) int {
	for _, name := range candidates {
		for i, c := range t.Columns {
			if strings.EqualFold(c, name) {
				return i
			}
		}
	}
	return -1
}

const epochMillisCutoff = 1e12

// parseDate coerces a raw cell into a UTC calendar date with the
// time-of-day stripped. Accepted forms: time.Time, RFC 3339 strings,
// plain "2006-01-02" strings, and numeric epochs (milliseconds above the
// cutoff, seconds below).
func parseDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return truncateDay(x), true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, x); err == nil {
				return truncateDay(ts), true
			}
		}
		return time.Time{}, false
	default:
		f, ok := parseFloat(v)
		if !ok || f <= 0 {
			return time.Time{}, false
		}
		if f >= epochMillisCutoff {
			return truncateDay(time.UnixMilli(int64(f))), true
		}
		return truncateDay(time.Unix(int64(f), 0)), true
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
