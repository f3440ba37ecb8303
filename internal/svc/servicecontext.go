package svc

import (
	"log"

	"finlens-api/internal/config"
	newspkg "finlens-api/pkg/news"
	providerpkg "finlens-api/pkg/provider"
	_ "finlens-api/pkg/provider/polygon"
	_ "finlens-api/pkg/provider/tiingo"
	"finlens-api/pkg/quotecache"
	trendspkg "finlens-api/pkg/trends"
)

type ServiceContext struct {
	Config config.Config

	Cache  *quotecache.Cache
	Quotes *providerpkg.Chain
	News   *newspkg.Analyzer
	Trends *trendspkg.Client
}

func NewServiceContext(c *config.Config) *ServiceContext {
	svc := &ServiceContext{Config: *c}

	cache, err := quotecache.New(c.Cache.Dir, c.Cache.Freshness())
	if err != nil {
		log.Fatalf("failed to init quote cache at %s: %v", c.Cache.Dir, err)
	}
	svc.Cache = cache

	if c.Providers.Value != nil {
		providers, err := c.Providers.Value.BuildProviders()
		if err != nil {
			log.Fatalf("failed to build quote providers: %v", err)
		}
		svc.Quotes = providerpkg.NewChain(providers, cache, c.Providers.Value.RetryConfig())
	}

	if c.News.Value != nil {
		client := newspkg.NewClient(c.News.Value)
		svc.News = newspkg.NewAnalyzer(c.News.Value, client)
	}

	if c.Trends.Value != nil {
		svc.Trends = trendspkg.NewClient(c.Trends.Value)
	}

	return svc
}
