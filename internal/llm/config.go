package llm

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Providers lists the hosted providers in discovery order.
var Providers = []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter}

// Config selects and configures the coach's model provider.
type Config struct {
	Provider string

	// Endpoints holds per-provider credentials keyed by provider name.
	Endpoints map[string]Endpoint

	Retry RetryConfig

	// Timeout bounds one coach request, retries included.
	Timeout time.Duration
}

// Endpoint is the key, model and optional base URL for one provider.
type Endpoint struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures exponential backoff.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig uses Anthropic with small, cheap models everywhere.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderAnthropic,
		Endpoints: map[string]Endpoint{
			ProviderAnthropic:  {Model: "claude-haiku"},
			ProviderOpenAI:     {Model: "gpt-4o-mini"},
			ProviderGemini:     {Model: "gemini-flash"},
			ProviderOpenRouter: {Model: "google/gemini-2.0-flash-001"},
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 20 * time.Second,
	}
}

// Endpoint returns the settings for the selected provider.
func (c Config) Endpoint() Endpoint {
	return c.Endpoints[c.Provider]
}

// SetAPIKey stores key for provider, keeping its model and base URL.
func (c *Config) SetAPIKey(provider, key string) {
	if c.Endpoints == nil {
		c.Endpoints = make(map[string]Endpoint)
	}
	ep := c.Endpoints[provider]
	ep.APIKey = key
	c.Endpoints[provider] = ep
}

func envName(provider, field string) string {
	return "CIRCLEZ_" + strings.ToUpper(provider) + "_" + field
}

// ConfigFromEnv layers CIRCLEZ_* environment variables over DefaultConfig.
//
//	CIRCLEZ_LLM_PROVIDER
//	CIRCLEZ_<PROVIDER>_API_KEY
//	CIRCLEZ_<PROVIDER>_MODEL
//	CIRCLEZ_<PROVIDER>_BASE_URL
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if p := os.Getenv("CIRCLEZ_LLM_PROVIDER"); p != "" {
		cfg.Provider = strings.ToLower(p)
	}
	for _, name := range Providers {
		ep := cfg.Endpoints[name]
		if v := os.Getenv(envName(name, "API_KEY")); v != "" {
			ep.APIKey = v
		}
		if v := os.Getenv(envName(name, "MODEL")); v != "" {
			ep.Model = v
		}
		if v := os.Getenv(envName(name, "BASE_URL")); v != "" {
			ep.BaseURL = v
		}
		cfg.Endpoints[name] = ep
	}
	return cfg
}

// standardKeyEnv maps providers to the env vars their own SDKs read.
var standardKeyEnv = map[string]string{
	ProviderGemini:     "GEMINI_API_KEY",
	ProviderOpenAI:     "OPENAI_API_KEY",
	ProviderAnthropic:  "ANTHROPIC_API_KEY",
	ProviderOpenRouter: "OPENROUTER_API_KEY",
}

// DiscoverConfig returns a config for the first provider, in Providers
// order, whose standard API key variable is set.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, name := range Providers {
		if k := os.Getenv(standardKeyEnv[name]); k != "" {
			cfg.Provider = name
			cfg.SetAPIKey(name, k)
			return cfg, true
		}
	}
	return Config{}, false
}

// KeyGetter looks up a stored API key. secrets.KeyringStore satisfies it.
type KeyGetter interface {
	Get(provider string) (string, error)
}

// KeyGetterFunc adapts a function to KeyGetter.
type KeyGetterFunc func(provider string) (string, error)

func (f KeyGetterFunc) Get(provider string) (string, error) { return f(provider) }

// FillFromKeyring sets the key of every provider that has none from keys.
// Lookup errors leave the provider unset; the first one that is not a plain
// miss is returned so callers can warn about a broken keychain.
func (c *Config) FillFromKeyring(keys KeyGetter, isMissing func(error) bool) error {
	var firstErr error
	for _, name := range Providers {
		if c.Endpoints[name].APIKey != "" {
			continue
		}
		k, err := keys.Get(name)
		if err != nil {
			if firstErr == nil && (isMissing == nil || !isMissing(err)) {
				firstErr = err
			}
			continue
		}
		c.SetAPIKey(name, k)
	}
	return firstErr
}

// ErrNoAPIKey is returned by Validate when the selected provider has no key.
var ErrNoAPIKey = errors.New("no API key configured")

// Validate checks that the selected provider is known and has a key.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.Endpoint().APIKey == "" {
			return fmt.Errorf("%s provider: %w (set %s or run `circlez coach login %s`)",
				c.Provider, ErrNoAPIKey, envName(c.Provider, "API_KEY"), c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("unknown coach provider: %q", c.Provider)
	}
}
