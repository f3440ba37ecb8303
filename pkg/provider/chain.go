package provider

import (
	"context"
	"errors"

	"github.com/zeromicro/go-zero/core/logx"

	"finlens-api/pkg/quote"
	"finlens-api/pkg/quotecache"
)

// Chain tries an ordered list of providers until one yields a usable
// series. For each provider it consults the cache first, then calls live
// with bounded retries, normalizes, and writes the cache entry. A provider
// that fails transiently is retried in place; a schema mismatch skips
// retries and escalates to the next provider immediately.
//
// Worst-case latency per provider is MaxAttempts live calls plus
// (MaxAttempts-1) fixed backoff sleeps; with the 3×1s defaults that is
// three calls and two seconds of sleep before the chain moves on.
type Chain struct {
	providers []Provider
	cache     *quotecache.Cache
	retry     *RetryHandler
}

// NewChain assembles a fallback chain. The cache may be nil, in which case
// every fetch goes live.
func NewChain(providers []Provider, cache *quotecache.Cache, retry RetryConfig) *Chain {
	return &Chain{
		providers: providers,
		cache:     cache,
		retry:     NewRetryHandler(retry),
	}
}

// Sources returns the configured provider names in priority order.
func (c *Chain) Sources() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Fetch returns a normalized series for the instrument, or a
// *SourceExhaustedError when every provider failed.
func (c *Chain) Fetch(ctx context.Context, instrument string, period Period, shape quote.Shape) (*quote.Series, error) {
	if len(c.providers) == 0 {
		return nil, errors.New("provider: chain has no providers")
	}

	var failures []Failure
	for _, p := range c.providers {
		key := quotecache.Key{
			Source:     p.Name(),
			Instrument: instrument,
			Period:     period.String(),
			Shape:      shape,
		}
		if c.cache != nil {
			if s, ok := c.cache.Get(key); ok {
				logx.WithContext(ctx).Infof("quote %s %s: cache hit (%s)", instrument, period, p.Name())
				return s, nil
			}
		}

		series, err := c.fetchLive(ctx, p, instrument, period, shape)
		if err != nil {
			logx.WithContext(ctx).Errorf("quote %s %s: %s failed: %v", instrument, period, p.Name(), err)
			failures = append(failures, Failure{Source: p.Name(), Err: err})
			continue
		}

		if c.cache != nil {
			if err := c.cache.Put(key, series); err != nil {
				// Cache problems never fail a successful fetch.
				logx.WithContext(ctx).Errorf("quote %s %s: cache write failed: %v", instrument, period, err)
			}
		}
		return series, nil
	}

	return nil, &SourceExhaustedError{
		Instrument: instrument,
		Period:     period.String(),
		Failures:   failures,
	}
}

// fetchLive calls one provider with the retry budget and normalizes the
// result. Schema errors from Normalize come back unwrapped so the caller
// can tell them apart from transport failures.
func (c *Chain) fetchLive(ctx context.Context, p Provider, instrument string, period Period, shape quote.Shape) (*quote.Series, error) {
	var series *quote.Series
	err := c.retry.Do(ctx, func() error {
		table, err := p.FetchDaily(ctx, instrument, period)
		if err != nil {
			return err
		}
		s, err := quote.Normalize(table, p.Name(), instrument, shape)
		if err != nil {
			return err
		}
		series = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}
