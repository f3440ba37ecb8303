// Command fetch runs a single quote lookup through the configured provider
// chain and prints timing, useful for checking provider credentials and the
// effect of a warm cache.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"finlens-api/internal/cli"
	"finlens-api/internal/config"
	"finlens-api/pkg/provider"
	"finlens-api/pkg/quote"
	"finlens-api/pkg/quotecache"

	// Import for side-effects: registers the quote providers
	_ "finlens-api/pkg/provider/polygon"
	_ "finlens-api/pkg/provider/tiingo"
)

var (
	configFile = flag.String("f", "etc/finlens.yaml", "the config file")
	ticker     = flag.String("ticker", "AAPL", "instrument to fetch")
	periodFlag = flag.String("period", "6mo", "trailing window, <N>mo or <N>y")
	fullOHLC   = flag.Bool("ohlc", false, "fetch high/low/close instead of close only")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("[fetch] failed to load config: %v", err)
	}
	for _, line := range cli.ConfigSummaryLines(cfg) {
		log.Printf("  - %s", line)
	}

	if cfg.Providers.Value == nil {
		log.Fatal("[fetch] no providers section configured")
	}

	period, err := provider.ParsePeriod(*periodFlag)
	if err != nil {
		log.Fatalf("[fetch] %v", err)
	}
	shape := quote.ShapeClose
	if *fullOHLC {
		shape = quote.ShapeOHLC
	}

	cache, err := quotecache.New(cfg.Cache.Dir, cfg.Cache.Freshness())
	if err != nil {
		log.Fatalf("[fetch] failed to init cache: %v", err)
	}
	providers, err := cfg.Providers.Value.BuildProviders()
	if err != nil {
		log.Fatalf("[fetch] failed to build providers: %v", err)
	}
	chain := provider.NewChain(providers, cache, cfg.Providers.Value.RetryConfig())

	log.Printf("[fetch] chain: %v", chain.Sources())

	start := time.Now()
	series, err := chain.Fetch(context.Background(), *ticker, period, shape)
	if err != nil {
		log.Printf("[fetch] %s failed after %s: %v", *ticker, time.Since(start), err)
		os.Exit(1)
	}

	log.Printf("[fetch] %s: %d rows from %s in %s", series.Instrument, series.Len(), series.Source, time.Since(start))
	if n := series.Len(); n > 0 {
		first, last := series.Rows[0], series.Rows[n-1]
		fmt.Printf("%s close %.2f .. %s close %.2f\n",
			first.Date.Format("2006-01-02"), first.Close,
			last.Date.Format("2006-01-02"), last.Close)
	}
}
