// Package config provides configuration loading and validation for the CLI and relay server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"github.com/jonathan/slide-deck-generator/internal/llm"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "SLIDES"

// defaultRetries is the number of extra attempts when nothing sets retries
const defaultRetries = 2

// Config represents the configuration that can be loaded from a JSON file
// or the environment. All fields are optional; missing values use defaults
// or must be provided via CLI flags.
type Config struct {
	// Generation
	Provider    string        `json:"provider,omitempty" envconfig:"PROVIDER" validate:"omitempty,oneof=openai gemini relay"`
	Model       string        `json:"model,omitempty" envconfig:"MODEL"`
	Temperature float32       `json:"temperature,omitempty" envconfig:"TEMPERATURE" validate:"gte=0,lte=2"`
	MaxTokens   int           `json:"max_tokens,omitempty" envconfig:"MAX_TOKENS" validate:"gte=0"`
	BaseURL     string        `json:"base_url,omitempty" envconfig:"BASE_URL" validate:"omitempty,url"`
	RelayURL    string        `json:"relay_url,omitempty" envconfig:"RELAY_URL" validate:"omitempty,url"`
	Timeout     time.Duration `json:"timeout,omitempty" envconfig:"TIMEOUT" validate:"gte=0"`
	Retries     *int          `json:"retries,omitempty" envconfig:"RETRIES" validate:"omitempty,gte=0,lte=10"` // nil means unset; 0 disables retrying
	CoverDate   bool          `json:"cover_date,omitempty" envconfig:"COVER_DATE"`

	// Credentials. OPENAI_API_KEY and GEMINI_API_KEY are also read without the prefix.
	APIKey       string `json:"api_key,omitempty" envconfig:"API_KEY"`
	OpenAIAPIKey string `json:"-" envconfig:"OPENAI_API_KEY"`
	GeminiAPIKey string `json:"-" envconfig:"GEMINI_API_KEY"`

	// Export
	Theme string `json:"theme,omitempty" envconfig:"THEME" validate:"omitempty,oneof=professional dark vibrant"`

	// Fetching
	UseBrowser bool `json:"use_browser,omitempty" envconfig:"USE_BROWSER"`

	// Relay server
	Port           int      `json:"port,omitempty" envconfig:"PORT" validate:"gte=0,lte=65535"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" envconfig:"ALLOWED_ORIGINS"`
	RequireAuth    bool     `json:"require_auth,omitempty" envconfig:"REQUIRE_AUTH"`
	DatabaseURL    string   `json:"database_url,omitempty" envconfig:"DATABASE_URL"` // PostgreSQL connection URL for the deck archive

	// Logging
	LogLevel  string `json:"log_level,omitempty" envconfig:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
	LogFormat string `json:"log_format,omitempty" envconfig:"LOG_FORMAT" validate:"omitempty,oneof=json console"`
	Verbose   bool   `json:"verbose,omitempty" envconfig:"VERBOSE"` // Print deck outline and warnings
}

// Defaults returns the values used when neither file, environment nor flags set a field
func Defaults() Config {
	return Config{
		Provider:  string(llm.ProviderOpenAI),
		Retries:   intPtr(defaultRetries),
		Theme:     "professional",
		Port:      8080,
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// LoadEnv reads configuration from SLIDES_* environment variables
func LoadEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}
	return &cfg, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load resolves the configuration: environment first, then the optional
// JSON file, then Defaults. CLI flags are applied by the caller afterwards.
func Load(path string) (*Config, error) {
	env, err := LoadEnv()
	if err != nil {
		return nil, err
	}

	merged := *env
	if path != "" {
		file, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		merged = merged.MergeWithDefaults(*file)
	}
	merged = merged.MergeWithDefaults(Defaults())

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Validate checks that the configuration has valid values.
// Required fields are not checked since those are handled by CLI flag
// validation after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.Provider == string(llm.ProviderRelay) && c.RelayURL == "" {
		return fmt.Errorf("config error: 'relay_url' is required for the relay provider")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Bool fields cannot distinguish unset from false, so true wins.
func (c Config) MergeWithDefaults(defaults Config) Config {
	result := c

	// String fields: use default if empty
	fillString(&result.Provider, defaults.Provider)
	fillString(&result.Model, defaults.Model)
	fillString(&result.BaseURL, defaults.BaseURL)
	fillString(&result.RelayURL, defaults.RelayURL)
	fillString(&result.APIKey, defaults.APIKey)
	fillString(&result.OpenAIAPIKey, defaults.OpenAIAPIKey)
	fillString(&result.GeminiAPIKey, defaults.GeminiAPIKey)
	fillString(&result.Theme, defaults.Theme)
	fillString(&result.DatabaseURL, defaults.DatabaseURL)
	fillString(&result.LogLevel, defaults.LogLevel)
	fillString(&result.LogFormat, defaults.LogFormat)

	// Numeric fields: use default if zero
	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}
	if result.MaxTokens == 0 {
		result.MaxTokens = defaults.MaxTokens
	}
	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}
	if result.Retries == nil && defaults.Retries != nil {
		result.Retries = intPtr(*defaults.Retries)
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}

	result.CoverDate = result.CoverDate || defaults.CoverDate
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser
	result.RequireAuth = result.RequireAuth || defaults.RequireAuth
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

func intPtr(v int) *int {
	return &v
}

func fillString(field *string, fallback string) {
	if *field == "" {
		*field = fallback
	}
}

// Credential returns the API key for the configured provider.
// An explicit api_key wins over the provider-specific variables.
func (c *Config) Credential() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	switch llm.Provider(c.Provider) {
	case llm.ProviderGemini:
		return c.GeminiAPIKey
	case llm.ProviderOpenAI, "":
		return c.OpenAIAPIKey
	default:
		return ""
	}
}

// LLMConfig builds the transport configuration, starting from provider defaults
func (c *Config) LLMConfig() (*llm.Config, error) {
	cfg, err := llm.ConfigFor(llm.Provider(c.Provider))
	if err != nil {
		return nil, err
	}
	if c.Model != "" {
		cfg.Model = c.Model
	}
	if c.Temperature != 0 {
		cfg.Temperature = c.Temperature
	}
	if c.MaxTokens != 0 {
		cfg.MaxTokens = c.MaxTokens
	}
	if c.Timeout != 0 {
		cfg.Timeout = c.Timeout
	}
	cfg.BaseURL = c.BaseURL
	if c.RelayURL != "" {
		cfg.RelayURL = c.RelayURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RetryCount returns the number of extra attempts, zero when unset
func (c *Config) RetryCount() int {
	if c.Retries == nil {
		return 0
	}
	return *c.Retries
}

// SetRetries sets an explicit retry count; zero disables retrying
func (c *Config) SetRetries(n int) {
	c.Retries = intPtr(n)
}

// RetryPolicy returns the retry decorator policy; Retries counts extra attempts
func (c *Config) RetryPolicy() llm.RetryPolicy {
	policy := llm.DefaultRetryPolicy()
	policy.MaxAttempts = c.RetryCount() + 1
	return policy
}
