package quote

import (
	"time"
)

// Shape selects which price fields a caller wants in a normalized series.
type Shape string

const (
	// ShapeClose keeps only date and close.
	ShapeClose Shape = "close"
	// ShapeOHLC keeps date, high, low and close (plus open/volume when present).
	ShapeOHLC Shape = "ohlc"
)

// Valid reports whether s is a known shape.
func (s Shape) Valid() bool {
	return s == ShapeClose || s == ShapeOHLC
}

// Row is a single trading day in a normalized series. Close is always
// populated; the remaining fields are populated according to the series
// shape and provider coverage, with HasOpen/HasVolume flagging the
// optional ones.
type Row struct {
	Date      time.Time `msgpack:"d" json:"date"`
	Open      float64   `msgpack:"o" json:"open,omitempty"`
	High      float64   `msgpack:"h" json:"high,omitempty"`
	Low       float64   `msgpack:"l" json:"low,omitempty"`
	Close     float64   `msgpack:"c" json:"close"`
	Volume    float64   `msgpack:"v" json:"volume,omitempty"`
	HasOpen   bool      `msgpack:"ho" json:"-"`
	HasVolume bool      `msgpack:"hv" json:"-"`
}

// Series is the canonical quote shape shared by all providers. Rows are
// sorted ascending by date with unique dates; a Series is built fresh per
// fetch and never mutated after being handed out.
type Series struct {
	Instrument string `msgpack:"instrument" json:"instrument"`
	Source     string `msgpack:"source" json:"source"`
	Shape      Shape  `msgpack:"shape" json:"shape"`
	Rows       []Row  `msgpack:"rows" json:"rows"`
}

// Len returns the number of rows.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}

// Table converts the series back into raw tabular form using canonical
// column names. Normalizing the result yields an identical series.
func (s *Series) Table() *Table {
	cols := []string{"date", "close"}
	if s.Shape == ShapeOHLC {
		cols = []string{"date", "high", "low", "close"}
		if len(s.Rows) > 0 && s.Rows[0].HasOpen {
			cols = append([]string{"date", "open"}, "high", "low", "close")
		}
	}
	hasVolume := len(s.Rows) > 0 && s.Rows[0].HasVolume
	if hasVolume {
		cols = append(cols, "volume")
	}

	t := &Table{Columns: cols}
	for _, r := range s.Rows {
		rec := make([]any, 0, len(cols))
		for _, c := range cols {
			switch c {
			case "date":
				rec = append(rec, r.Date)
			case "open":
				rec = append(rec, r.Open)
			case "high":
				rec = append(rec, r.High)
			case "low":
				rec = append(rec, r.Low)
			case "close":
				rec = append(rec, r.Close)
			case "volume":
				rec = append(rec, r.Volume)
			}
		}
		t.Records = append(t.Records, rec)
	}
	return t
}
