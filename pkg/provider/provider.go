// Package provider defines the market-data source abstraction and the
// fallback chain that drives an ordered list of sources with caching and
// bounded retries.
package provider

import (
	"context"

	"finlens-api/pkg/quote"
)

// Provider fetches raw daily price data for one instrument over a lookback
// window. Implementations return provider-shaped tables; schema
// reconciliation happens in the quote normalizer, not here.
type Provider interface {
	Name() string
	FetchDaily(ctx context.Context, instrument string, period Period) (*quote.Table, error)
}
