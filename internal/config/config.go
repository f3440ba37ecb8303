package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/rest"

	"finlens-api/pkg/confkit"
	newspkg "finlens-api/pkg/news"
	providerpkg "finlens-api/pkg/provider"
	trendspkg "finlens-api/pkg/trends"
)

// CacheConf tunes the disk quote cache.
type CacheConf struct {
	Dir            string `json:",default=.cache/quotes"`
	FreshnessHours int    `json:",default=24"`
}

// Freshness returns the configured window as a duration.
func (c CacheConf) Freshness() time.Duration {
	return time.Duration(c.FreshnessHours) * time.Hour
}

// Config is the main application configuration. Provider, news and trends
// settings live in their own files next to the main one and are hydrated
// on load.
type Config struct {
	rest.RestConf
	// Env indicates the running environment: test | dev | prod.
	Env   string    `json:",default=test"`
	Cache CacheConf `json:",optional"`

	Providers confkit.Section[providerpkg.Config] `json:",optional"`
	News      confkit.Section[newspkg.Config]     `json:",optional"`
	Trends    confkit.Section[trendspkg.Config]   `json:",optional"`

	mainPath string
	baseDir  string
}

// IsTestEnv reports whether the service runs in test mode.
func (c *Config) IsTestEnv() bool {
	return c.Env == "test" || c.Env == ""
}

// MustLoad is Load for main functions.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads and validates the full configuration tree. A missing provider
// or news credential fails here, before the server starts serving.
func Load(path string) (*Config, error) {
	confkit.LoadDotenvOnce()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	var cfg Config
	if err := conf.Load(absPath, &cfg, conf.UseEnv()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", absPath, err)
	}

	cfg.mainPath = absPath
	cfg.baseDir = filepath.Dir(absPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.hydrateSections(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the top-level fields.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "", "test", "dev", "prod":
		if strings.TrimSpace(c.Env) == "" {
			c.Env = "test"
		}
	default:
		return errors.New("config: env must be one of test|dev|prod")
	}
	if strings.TrimSpace(c.Cache.Dir) == "" {
		return errors.New("config: cache.dir is required")
	}
	if c.Cache.FreshnessHours <= 0 {
		return errors.New("config: cache.freshnessHours must be positive")
	}
	return nil
}

func (c *Config) hydrateSections() error {
	base := c.baseDir

	if err := c.Providers.Hydrate(base, providerpkg.LoadConfig); err != nil {
		return fmt.Errorf("load providers config: %w", err)
	}
	if err := c.News.Hydrate(base, newspkg.LoadConfig); err != nil {
		return fmt.Errorf("load news config: %w", err)
	}
	if err := c.Trends.Hydrate(base, trendspkg.LoadConfig); err != nil {
		return fmt.Errorf("load trends config: %w", err)
	}
	return nil
}

// MainPath returns the absolute path of the loaded main config file.
func (c *Config) MainPath() string {
	return c.mainPath
}

// BaseDir returns the directory of the main config file.
func (c *Config) BaseDir() string {
	return c.baseDir
}
