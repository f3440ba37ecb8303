// Package sector builds a cross-sector growth comparison from the SPDR
// sector ETFs, reducing each full-OHLC series to its typical price.
package sector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"finlens-api/pkg/fanout"
	"finlens-api/pkg/provider"
	"finlens-api/pkg/quote"
)

// ETF maps a sector name to its proxy ticker.
type ETF struct {
	Sector string
	Ticker string
}

// ETFs lists the tracked sectors in presentation order.
var ETFs = []ETF{
	{"Technology", "XLK"},
	{"Financials", "XLF"},
	{"Energy", "XLE"},
	{"Healthcare", "XLV"},
	{"Consumer Discretionary", "XLY"},
	{"Industrials", "XLI"},
	{"Utilities", "XLU"},
	{"Materials", "XLB"},
	{"Real Estate", "XLRE"},
	{"Communication Services", "XLC"},
}

// Table is a date-aligned typical-price matrix. Values[i][j] is sector j's
// typical price on Dates[i], NaN where that sector has no row for the date.
type Table struct {
	Dates   []time.Time
	Sectors []string
	Values  [][]float64
}

// TypicalPrices fetches every sector ETF through the fallback chain
// concurrently and aligns the (high+low+close)/3 series on the union of
// their dates. Sectors whose whole chain failed are logged and left out;
// the call only errors when no sector could be fetched at all.
func TypicalPrices(ctx context.Context, chain *provider.Chain, period provider.Period) (*Table, error) {
	tasks := make([]fanout.Task, len(ETFs))
	for i, etf := range ETFs {
		etf := etf
		tasks[i] = fanout.Task{
			Name: etf.Ticker,
			Run: func(ctx context.Context) (any, error) {
				return chain.Fetch(ctx, etf.Ticker, period, quote.ShapeOHLC)
			},
		}
	}
	outcomes := fanout.Gather(ctx, tasks)

	type column struct {
		sector string
		prices map[time.Time]float64
	}
	var cols []column
	for i, o := range outcomes {
		if !o.OK() {
			logx.WithContext(ctx).Errorf("sector %s (%s): skipped: %v", ETFs[i].Sector, ETFs[i].Ticker, o.Err)
			continue
		}
		series := o.Value.(*quote.Series)
		prices := make(map[time.Time]float64, series.Len())
		for _, row := range series.Rows {
			prices[row.Date] = (row.High + row.Low + row.Close) / 3
		}
		cols = append(cols, column{sector: ETFs[i].Sector, prices: prices})
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("sector: no sector data for period %s", period)
	}

	dateSet := make(map[time.Time]struct{})
	for _, c := range cols {
		for d := range c.prices {
			dateSet[d] = struct{}{}
		}
	}
	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	table := &Table{Dates: dates}
	for _, c := range cols {
		table.Sectors = append(table.Sectors, c.sector)
	}
	for _, d := range dates {
		row := make([]float64, len(cols))
		for j, c := range cols {
			if v, ok := c.prices[d]; ok {
				row[j] = v
			} else {
				row[j] = math.NaN()
			}
		}
		table.Values = append(table.Values, row)
	}
	return table, nil
}

// NormalizedGrowth rebases each sector column to 100 at its first
// available date, for growth comparison across sectors.
func (t *Table) NormalizedGrowth() *Table {
	out := &Table{Dates: t.Dates, Sectors: t.Sectors}
	base := make([]float64, len(t.Sectors))
	for j := range base {
		base[j] = math.NaN()
	}
	for _, row := range t.Values {
		scaled := make([]float64, len(row))
		for j, v := range row {
			if math.IsNaN(base[j]) && !math.IsNaN(v) && v != 0 {
				base[j] = v
			}
			if math.IsNaN(base[j]) || math.IsNaN(v) {
				scaled[j] = math.NaN()
				continue
			}
			scaled[j] = v / base[j] * 100
		}
		out.Values = append(out.Values, scaled)
	}
	return out
}
