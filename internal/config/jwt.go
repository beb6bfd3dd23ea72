package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// JWTConfig holds configuration for relay bearer token generation and validation.
type JWTConfig struct {
	Secret          string `envconfig:"JWT_SECRET"`
	ExpirationHours int    `envconfig:"JWT_EXPIRATION_HOURS" default:"24"`
	Issuer          string `envconfig:"JWT_ISSUER" default:"slide-agent"`
}

// NewJWTConfig creates a new JWT configuration from environment variables.
// It reads SLIDES_JWT_SECRET (or JWT_SECRET, required), SLIDES_JWT_EXPIRATION_HOURS
// (default: 24) and SLIDES_JWT_ISSUER.
func NewJWTConfig() (*JWTConfig, error) {
	var config JWTConfig
	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return nil, fmt.Errorf("invalid JWT config: %w", err)
	}
	if config.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return &config, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if len(c.Secret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
