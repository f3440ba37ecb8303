package quote

import (
	"sort"
)

// Table is the raw tabular payload a provider hands to the normalizer:
// named columns and positional records. Cell values keep whatever type the
// provider's decoder produced (string, float64, int64, time.Time); the
// normalizer is responsible for coercion.
type Table struct {
	Columns []string
	Records [][]any
}

// NumRows returns the record count.
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// column returns the index of the named column, or -1.
func (t *Table) column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// TableFromMaps builds a Table from decoded JSON objects. Column order is
// the sorted union of keys so the result is deterministic regardless of
// map iteration order; records missing a key get a nil cell.
func TableFromMaps(rows []map[string]any) *Table {
	seen := make(map[string]struct{})
	var cols []string
	for _, row := range rows {
		for k := range row {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)

	t := &Table{Columns: cols}
	for _, row := range rows {
		rec := make([]any, len(cols))
		for i, c := range cols {
			if v, ok := row[c]; ok {
				rec[i] = v
			}
		}
		t.Records = append(t.Records, rec)
	}
	return t
}
