package trends

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"finlens-api/pkg/confkit"
)

// Config configures the search-interest source.
type Config struct {
	BaseURL string `yaml:"base_url"`
	Weeks   int    `yaml:"weeks"`

	HTTPTimeoutRaw string        `yaml:"http_timeout"`
	HTTPTimeout    time.Duration `yaml:"-"`
}

// LoadConfig reads trends configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trends config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read trends config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal trends config: %w", err)
	}
	cfg.BaseURL = strings.TrimSpace(os.ExpandEnv(cfg.BaseURL))
	if cfg.Weeks <= 0 {
		cfg.Weeks = defaultWeeks
	}
	if cfg.HTTPTimeoutRaw != "" {
		d, err := time.ParseDuration(cfg.HTTPTimeoutRaw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("trends config: invalid http_timeout %q", cfg.HTTPTimeoutRaw)
		}
		cfg.HTTPTimeout = d
	} else {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}
	return &cfg, nil
}
