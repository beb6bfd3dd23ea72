package ratelimit

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (a trailing "/" matches by prefix)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window; 0 means unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// envSettings mirrors the RATE_LIMIT_* environment variables
type envSettings struct {
	Enabled         bool          `envconfig:"ENABLED" default:"true"`
	DefaultLimit    int           `envconfig:"DEFAULT_LIMIT" default:"600"`
	DefaultWindow   time.Duration `envconfig:"DEFAULT_WINDOW" default:"1m"`
	CleanupInterval time.Duration `envconfig:"CLEANUP_INTERVAL" default:"5m"`
	Whitelist       []string      `envconfig:"WHITELIST"`
	Blacklist       []string      `envconfig:"BLACKLIST"`
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment variables.
func LoadConfig() (*Config, error) {
	var env envSettings
	if err := envconfig.Process("RATE_LIMIT", &env); err != nil {
		return nil, fmt.Errorf("invalid rate limit config: %w", err)
	}
	if !env.Enabled {
		return &Config{Enabled: false}, nil
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.DefaultLimit,
		DefaultWindow:   env.DefaultWindow,
		CleanupInterval: env.CleanupInterval,
		Whitelist:       ipSet(env.Whitelist),
		Blacklist:       ipSet(env.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}, nil
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Model calls cost money: strictest limits
		{Path: "/api/generate-slides", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/api/generate-slides/stream", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},

		// Outbound fetches and rendering
		{Path: "/api/fetch", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/export/", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// Health and metrics are unlimited
		{Path: "/health", Method: "GET", Limit: 0},
		{Path: "/metrics", Method: "GET", Limit: 0},
	}
}

// ipSet builds a lookup set, ignoring blank entries
func ipSet(ips []string) map[string]bool {
	result := make(map[string]bool, len(ips))
	for _, ip := range ips {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
