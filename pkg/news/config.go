package news

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"finlens-api/pkg/confkit"
)

const (
	defaultPageSize    = 50
	defaultLanguage    = "en"
	defaultWindowDays  = 5
	defaultHTTPTimeout = 30 * time.Second
)

// Config configures the headline provider and the sentiment window.
type Config struct {
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Language string `yaml:"language"`
	PageSize int    `yaml:"page_size"`

	// WindowDays is the trailing day count for the sentiment series.
	WindowDays int `yaml:"window_days"`

	HTTPTimeoutRaw string        `yaml:"http_timeout"`
	HTTPTimeout    time.Duration `yaml:"-"`
}

// LoadConfig reads news configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open news config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read news config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal news config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() error {
	c.BaseURL = strings.TrimSpace(os.ExpandEnv(c.BaseURL))
	c.APIKey = strings.TrimSpace(os.ExpandEnv(c.APIKey))
	if c.Language == "" {
		c.Language = defaultLanguage
	}
	if c.PageSize <= 0 {
		c.PageSize = defaultPageSize
	}
	if c.WindowDays <= 0 {
		c.WindowDays = defaultWindowDays
	}
	if c.HTTPTimeoutRaw != "" {
		d, err := time.ParseDuration(c.HTTPTimeoutRaw)
		if err != nil || d <= 0 {
			return fmt.Errorf("news config: invalid http_timeout %q", c.HTTPTimeoutRaw)
		}
		c.HTTPTimeout = d
	} else {
		c.HTTPTimeout = defaultHTTPTimeout
	}
	return nil
}

// Validate fails fast on a missing credential; the aggregation service
// refuses to start without one rather than failing per call.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("news config: api_key is required (set NEWSAPI_KEY)")
	}
	return nil
}
