package types

// AnalyzeRequest selects which data blocks to assemble for one subject.
// At least one of Ticker, Subject or Sector must be set.
type AnalyzeRequest struct {
	// Subject drives headline sentiment and search-interest lookups.
	Subject string `json:"subject,optional"`
	// Ticker drives the daily quote fetch through the provider chain.
	Ticker string `json:"ticker,optional"`
	// Sector requests the normalized sector-ETF growth table.
	Sector bool `json:"sector,optional"`
	// Period is the trailing quote window, "<N>mo" or "<N>y".
	Period string `json:"period,default=6mo"`
	// FullOHLC switches the quote block from close-only to high/low/close.
	FullOHLC bool `json:"fullOhlc,optional"`
}

// ChartBlock is one renderable table: a kind tag, a title line and
// column-oriented rows with dates already formatted as YYYY-MM-DD.
type ChartBlock struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Columns     []string `json:"columns"`
	Rows        [][]any  `json:"rows"`
}

// AnalyzeResponse carries the blocks that succeeded plus one message per
// failed block. A request only fails wholesale when its inputs are invalid.
type AnalyzeResponse struct {
	Blocks []ChartBlock `json:"blocks"`
	Errors []string     `json:"errors,omitempty"`
}
