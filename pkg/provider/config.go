package provider

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"finlens-api/pkg/confkit"
)

// Config declares the ordered provider chain for price series. The order
// is explicit configuration: the first entry is the primary source, the
// rest are fallbacks.
type Config struct {
	Chain     []string                   `yaml:"chain"`
	Providers map[string]*ProviderConfig `yaml:"providers"`

	Retry RetrySettings `yaml:"retry"`
}

// RetrySettings tunes the per-provider retry policy.
type RetrySettings struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BackoffRaw  string        `yaml:"backoff"`
	Backoff     time.Duration `yaml:"-"`
}

// ProviderConfig configures a single price source.
type ProviderConfig struct {
	Type    string `yaml:"type"`
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`

	HTTPTimeoutRaw string        `yaml:"http_timeout"`
	HTTPTimeout    time.Duration `yaml:"-"`
}

// Builder constructs a Provider from configuration.
type Builder func(name string, cfg *ProviderConfig) (Provider, error)

var (
	registry   = make(map[string]Builder)
	registryMu sync.RWMutex
)

// Register registers a provider constructor under a type name. Provider
// packages call this from init and are imported for side effects.
func Register(typeName string, builder Builder) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(strings.TrimSpace(typeName))] = builder
}

func lookupBuilder(typeName string) (Builder, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	b, ok := registry[strings.ToLower(strings.TrimSpace(typeName))]
	return b, ok
}

// LoadConfig reads provider configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open provider config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read provider config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal provider config: %w", err)
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
	if c.Providers == nil {
		c.Providers = make(map[string]*ProviderConfig)
	}
	for name, pc := range c.Providers {
		if pc == nil {
			pc = &ProviderConfig{}
			c.Providers[name] = pc
		}
		pc.expandEnv()
		if pc.HTTPTimeoutRaw != "" {
			d, err := time.ParseDuration(pc.HTTPTimeoutRaw)
			if err != nil || d <= 0 {
				return fmt.Errorf("provider %s: invalid http_timeout %q", name, pc.HTTPTimeoutRaw)
			}
			pc.HTTPTimeout = d
		}
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = defaultMaxAttempts
	}
	if c.Retry.BackoffRaw != "" {
		d, err := time.ParseDuration(c.Retry.BackoffRaw)
		if err != nil || d <= 0 {
			return fmt.Errorf("provider retry: invalid backoff %q", c.Retry.BackoffRaw)
		}
		c.Retry.Backoff = d
	} else {
		c.Retry.Backoff = defaultBackoff
	}
	return nil
}

func (pc *ProviderConfig) expandEnv() {
	pc.Type = strings.TrimSpace(os.ExpandEnv(pc.Type))
	pc.BaseURL = strings.TrimSpace(os.ExpandEnv(pc.BaseURL))
	pc.APIKey = strings.TrimSpace(os.ExpandEnv(pc.APIKey))
}

// Validate ensures the chain is structurally sound. Missing credentials
// surface here, at startup, rather than on the first live call.
func (c *Config) Validate() error {
	if len(c.Chain) == 0 {
		return fmt.Errorf("provider config: chain cannot be empty")
	}
	for _, name := range c.Chain {
		pc, ok := c.Providers[name]
		if !ok {
			return fmt.Errorf("provider config: chain entry %q not defined under providers", name)
		}
		if strings.TrimSpace(pc.Type) == "" {
			return fmt.Errorf("provider config: provider %s must specify type", name)
		}
		if _, ok := lookupBuilder(pc.Type); !ok {
			return fmt.Errorf("provider config: provider %s has unsupported type %q", name, pc.Type)
		}
	}
	return nil
}

// BuildProviders instantiates the chained providers in configured order.
func (c *Config) BuildProviders() ([]Provider, error) {
	out := make([]Provider, 0, len(c.Chain))
	for _, name := range c.Chain {
		pc := c.Providers[name]
		builder, ok := lookupBuilder(pc.Type)
		if !ok {
			return nil, fmt.Errorf("provider %s: unsupported type %q", name, pc.Type)
		}
		p, err := builder(name, pc)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", name, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// RetryConfig converts the settings into the chain's retry policy.
func (c *Config) RetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: c.Retry.MaxAttempts, Backoff: c.Retry.Backoff}
}
