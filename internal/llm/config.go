// Package llm provides the text-generation transports used to produce slide decks.
// Every transport implements Client, so the generator never knows whether it talks
// to a chat-completion endpoint directly, to Gemini, or to a relay that holds the key.
package llm

import (
	"fmt"
	"time"
)

// Provider represents a text-generation transport
type Provider string

// Provider constants define supported transports
const (
	// ProviderOpenAI calls an OpenAI-compatible chat-completion endpoint directly
	ProviderOpenAI Provider = "openai"
	// ProviderGemini calls Google Gemini directly
	ProviderGemini Provider = "gemini"
	// ProviderRelay posts the source text to a relay server that holds the credential
	ProviderRelay Provider = "relay"
)

// Generation defaults. The token budget covers about nine slides of structured JSON.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
	DefaultTimeout     = 60 * time.Second
)

// Config holds the transport configuration
type Config struct {
	Provider    Provider
	Model       string
	Temperature float32
	MaxTokens   int
	// BaseURL overrides the provider endpoint (OpenAI-compatible gateways, tests)
	BaseURL string
	// RelayURL is the full URL of the relay generate endpoint (ProviderRelay only)
	RelayURL string
	Timeout  time.Duration
}

// DefaultConfig returns the default configuration (direct OpenAI calls)
func DefaultConfig() *Config {
	return DefaultOpenAIConfig()
}

// DefaultOpenAIConfig returns the default chat-completion configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider:    ProviderOpenAI,
		Model:       "gpt-4o-mini",
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     DefaultTimeout,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       "gemini-2.5-flash",
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     DefaultTimeout,
	}
}

// DefaultRelayConfig returns a relay configuration pointing at relayURL
func DefaultRelayConfig(relayURL string) *Config {
	return &Config{
		Provider: ProviderRelay,
		RelayURL: relayURL,
		Timeout:  DefaultTimeout,
	}
}

// ConfigFor returns the default configuration for a provider name
func ConfigFor(provider Provider) (*Config, error) {
	switch provider {
	case ProviderOpenAI, "":
		return DefaultOpenAIConfig(), nil
	case ProviderGemini:
		return DefaultGeminiConfig(), nil
	case ProviderRelay:
		return DefaultRelayConfig(""), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}

// Validate checks that the configuration can build a client
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
		if c.Model == "" {
			return fmt.Errorf("model is required for provider %s", c.Provider)
		}
		if c.MaxTokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
		}
		if c.Temperature < 0 || c.Temperature > 2 {
			return fmt.Errorf("temperature must be within [0, 2], got %.2f", c.Temperature)
		}
	case ProviderRelay:
		if c.RelayURL == "" {
			return fmt.Errorf("relay URL is required for provider %s", c.Provider)
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	return nil
}

// timeout returns the configured timeout or the default
func (c *Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}
