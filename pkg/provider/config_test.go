package provider_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	provider "finlens-api/pkg/provider"
	_ "finlens-api/pkg/provider/polygon"
	_ "finlens-api/pkg/provider/tiingo"
)

func TestLoadProviderConfig(t *testing.T) {
	t.Setenv("TIINGO_API_KEY", "tiingo-secret")
	t.Setenv("POLYGON_API_KEY", "polygon-secret")

	dir := t.TempDir()
	configYAML := `
chain: [tiingo, polygon]
retry:
  max_attempts: 3
  backoff: 1s
providers:
  tiingo:
    type: tiingo
    api_key: ${TIINGO_API_KEY}
    http_timeout: 20s
  polygon:
    type: polygon
    api_key: ${POLYGON_API_KEY}
    http_timeout: 20s
`
	path := filepath.Join(dir, "providers.yaml")
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := provider.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if got := cfg.Providers["tiingo"].APIKey; got != "tiingo-secret" {
		t.Fatalf("env not expanded, got %q", got)
	}
	if cfg.Retry.Backoff != time.Second {
		t.Fatalf("unexpected backoff: %s", cfg.Retry.Backoff)
	}

	providers, err := cfg.BuildProviders()
	if err != nil {
		t.Fatalf("BuildProviders error: %v", err)
	}
	if len(providers) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(providers))
	}
	if providers[0].Name() != "tiingo" || providers[1].Name() != "polygon" {
		t.Fatalf("chain order not preserved: %s, %s", providers[0].Name(), providers[1].Name())
	}
}

func TestProviderConfigDefaultsRetry(t *testing.T) {
	cfg, err := provider.LoadConfigFromReader(strings.NewReader(`
chain: [tiingo]
providers:
  tiingo:
    type: tiingo
    api_key: k
`))
	if err != nil {
		t.Fatalf("LoadConfigFromReader error: %v", err)
	}
	rc := cfg.RetryConfig()
	if rc.MaxAttempts != 3 || rc.Backoff != time.Second {
		t.Fatalf("unexpected retry defaults: %+v", rc)
	}
}

func TestProviderConfigInvalid(t *testing.T) {
	cases := map[string]string{
		"empty chain": `
providers:
  tiingo: {type: tiingo}
`,
		"undefined chain entry": `
chain: [missing]
providers:
  tiingo: {type: tiingo}
`,
		"unsupported type": `
chain: [demo]
providers:
  demo: {type: foobar}
`,
		"bad backoff": `
chain: [tiingo]
retry: {backoff: soon}
providers:
  tiingo: {type: tiingo}
`,
	}
	for name, configYAML := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := provider.LoadConfigFromReader(strings.NewReader(configYAML)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestBuildProvidersMissingCredential(t *testing.T) {
	cfg, err := provider.LoadConfigFromReader(strings.NewReader(`
chain: [polygon]
providers:
  polygon:
    type: polygon
    api_key: ${FINLENS_UNSET_KEY}
`))
	if err != nil {
		t.Fatalf("LoadConfigFromReader error: %v", err)
	}
	if _, err := cfg.BuildProviders(); err == nil {
		t.Fatal("expected missing credential to fail provider construction")
	}
}
