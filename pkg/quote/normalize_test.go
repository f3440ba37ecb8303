package quote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeMapsProviderColumns(t *testing.T) {
	table := &Table{
		Columns: []string{"t", "o", "h", "l", "c", "v"},
		Records: [][]any{
			{float64(1735689600000), 10.0, 12.0, 9.5, 11.0, 1000.0},
			{float64(1735776000000), 11.0, 13.0, 10.5, 12.5, 1100.0},
		},
	}

	s, err := Normalize(table, "polygon", "NVDA", ShapeOHLC)
	require.NoError(t, err)
	require.Equal(t, "NVDA", s.Instrument)
	require.Equal(t, "polygon", s.Source)
	require.Len(t, s.Rows, 2)
	require.Equal(t, day(2025, time.January, 1), s.Rows[0].Date)
	require.Equal(t, 11.0, s.Rows[0].Close)
	require.Equal(t, 12.0, s.Rows[0].High)
	require.Equal(t, 9.5, s.Rows[0].Low)
	require.True(t, s.Rows[0].HasOpen)
	require.True(t, s.Rows[0].HasVolume)
}

func TestNormalizeSubstitutesAdjustedClose(t *testing.T) {
	table := &Table{
		Columns: []string{"date", "adjClose"},
		Records: [][]any{
			{"2025-03-03T00:00:00Z", 101.5},
		},
	}

	s, err := Normalize(table, "tiingo", "AAPL", ShapeClose)
	require.NoError(t, err)
	require.Equal(t, 101.5, s.Rows[0].Close)
}

func TestNormalizePrefersRawCloseOverAdjusted(t *testing.T) {
	table := &Table{
		Columns: []string{"date", "adjClose", "close"},
		Records: [][]any{
			{"2025-03-03", 99.0, 100.0},
		},
	}

	s, err := Normalize(table, "tiingo", "AAPL", ShapeClose)
	require.NoError(t, err)
	require.Equal(t, 100.0, s.Rows[0].Close)
}

func TestNormalizeSelectsInstrumentFromBatchPayload(t *testing.T) {
	table := &Table{
		Columns: []string{"NVDA.date", "NVDA.close", "AMD.date", "AMD.close"},
		Records: [][]any{
			{"2025-02-01", 700.0, "2025-02-01", 170.0},
		},
	}

	s, err := Normalize(table, "tiingo", "NVDA", ShapeClose)
	require.NoError(t, err)
	require.Equal(t, 700.0, s.Rows[0].Close)
}

func TestNormalizeDropsIncompleteRowsAndSorts(t *testing.T) {
	table := &Table{
		Columns: []string{"date", "close"},
		Records: [][]any{
			{"2025-02-03", 12.0},
			{"2025-02-01", nil}, // dropped: close missing
			{"not-a-date", 13.0}, // dropped: date unparseable
			{"2025-02-02", 11.0},
		},
	}

	s, err := Normalize(table, "tiingo", "X", ShapeClose)
	require.NoError(t, err)
	require.Len(t, s.Rows, 2)
	require.Equal(t, day(2025, time.February, 2), s.Rows[0].Date)
	require.Equal(t, day(2025, time.February, 3), s.Rows[1].Date)
}

func TestNormalizeDeduplicatesLastWriteWins(t *testing.T) {
	table := &Table{
		Columns: []string{"date", "close"},
		Records: [][]any{
			{"2025-02-01T09:30:00Z", 10.0},
			{"2025-02-01T16:00:00Z", 10.5},
		},
	}

	s, err := Normalize(table, "tiingo", "X", ShapeClose)
	require.NoError(t, err)
	require.Len(t, s.Rows, 1)
	require.Equal(t, 10.5, s.Rows[0].Close)
}

func TestNormalizeIdempotent(t *testing.T) {
	table := &Table{
		Columns: []string{"t", "o", "h", "l", "c", "v"},
		Records: [][]any{
			{float64(1735689600000), 10.0, 12.0, 9.5, 11.0, 1000.0},
			{float64(1735776000000), 11.0, 13.0, 10.5, 12.5, 1100.0},
		},
	}

	first, err := Normalize(table, "polygon", "NVDA", ShapeOHLC)
	require.NoError(t, err)

	second, err := Normalize(first.Table(), "polygon", "NVDA", ShapeOHLC)
	require.NoError(t, err)
	require.Equal(t, first.Rows, second.Rows)
}

func TestNormalizeSchemaErrors(t *testing.T) {
	t.Run("missing high and low for ohlc", func(t *testing.T) {
		table := &Table{
			Columns: []string{"date", "close"},
			Records: [][]any{{"2025-02-01", 10.0}},
		}
		_, err := Normalize(table, "tiingo", "X", ShapeOHLC)
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := Normalize(&Table{Columns: []string{"date", "close"}}, "tiingo", "X", ShapeClose)
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
	})

	t.Run("all rows dropped", func(t *testing.T) {
		table := &Table{
			Columns: []string{"date", "close"},
			Records: [][]any{{"garbage", nil}},
		}
		_, err := Normalize(table, "tiingo", "X", ShapeClose)
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
	})

	t.Run("no close candidate", func(t *testing.T) {
		table := &Table{
			Columns: []string{"date", "price"},
			Records: [][]any{{"2025-02-01", 10.0}},
		}
		_, err := Normalize(table, "tiingo", "X", ShapeClose)
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
	})
}

func TestTableFromMapsDeterministicColumns(t *testing.T) {
	rows := []map[string]any{
		{"close": 10.0, "date": "2025-02-01"},
		{"date": "2025-02-02", "close": 11.0, "volume": 5.0},
	}
	table := TableFromMaps(rows)
	require.Equal(t, []string{"close", "date", "volume"}, table.Columns)
	require.Len(t, table.Records, 2)
	require.Nil(t, table.Records[0][2])
}
