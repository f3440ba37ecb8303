package logic

import (
	"fmt"
	"math"
	"time"

	"finlens-api/internal/types"
	"finlens-api/pkg/news"
	"finlens-api/pkg/quote"
	"finlens-api/pkg/sector"
	"finlens-api/pkg/trends"
)

const dateLayout = "2006-01-02"

// quoteBlock renders a normalized price series as a chart block. Column
// order follows the series shape; dates come out as YYYY-MM-DD strings.
func quoteBlock(s *quote.Series, period string) types.ChartBlock {
	t := s.Table()
	rows := make([][]any, 0, len(t.Records))
	for _, rec := range t.Records {
		row := make([]any, len(rec))
		for i, v := range rec {
			if d, ok := v.(time.Time); ok {
				row[i] = d.Format(dateLayout)
				continue
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return types.ChartBlock{
		Type:        "quotes",
		Title:       fmt.Sprintf("%s daily prices (%s)", s.Instrument, period),
		Description: fmt.Sprintf("source: %s", s.Source),
		Columns:     t.Columns,
		Rows:        rows,
	}
}

// sentimentBlock renders the trailing headline-sentiment window, one row
// per day, oldest first.
func sentimentBlock(subject string, days []news.DayCounts) types.ChartBlock {
	rows := make([][]any, 0, len(days))
	for _, d := range days {
		rows = append(rows, []any{d.Date.Format(dateLayout), d.Positive, d.Negative, d.Neutral})
	}
	return types.ChartBlock{
		Type:    "sentiment",
		Title:   fmt.Sprintf("%s headline sentiment, last %d days", subject, len(days)),
		Columns: []string{"date", "positive", "negative", "neutral"},
		Rows:    rows,
	}
}

// trendBlock renders a search-interest series.
func trendBlock(s *trends.Series) types.ChartBlock {
	rows := make([][]any, 0, len(s.Points))
	for _, p := range s.Points {
		rows = append(rows, []any{p.Date.Format(dateLayout), p.Interest})
	}
	return types.ChartBlock{
		Type:    "trends",
		Title:   fmt.Sprintf("Search interest for %q", s.Term),
		Columns: []string{"date", "interest"},
		Rows:    rows,
	}
}

// sectorBlock renders the normalized sector growth table. Gaps in the
// aligned matrix are NaN internally; JSON cannot carry NaN, so they render
// as null.
func sectorBlock(t *sector.Table, period string) types.ChartBlock {
	cols := append([]string{"date"}, t.Sectors...)
	rows := make([][]any, 0, len(t.Dates))
	for i, d := range t.Dates {
		row := make([]any, 0, len(cols))
		row = append(row, d.Format(dateLayout))
		for _, v := range t.Values[i] {
			if math.IsNaN(v) {
				row = append(row, nil)
				continue
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return types.ChartBlock{
		Type:        "sector",
		Title:       fmt.Sprintf("Sector growth, normalized to 100 (%s)", period),
		Description: "typical price (high+low+close)/3 per SPDR sector ETF",
		Columns:     cols,
		Rows:        rows,
	}
}
