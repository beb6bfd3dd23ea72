package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"go.uber.org/zap"
)

// Request is one generation call.
// Direct transports send System and Prompt; the relay sends SourceText and
// lets the relay build the prompt with its own credential.
type Request struct {
	System     string
	Prompt     string
	SourceText string
	// Credential is supplied per call and never stored or logged
	Credential string
}

// Client is an abstraction over text-generation transports
type Client interface {
	// Generate returns the raw text of the single generated message
	Generate(ctx context.Context, req Request) (string, error)
}

// ClientFunc adapts a function to the Client interface
type ClientFunc func(ctx context.Context, req Request) (string, error)

// Generate calls f(ctx, req)
func (f ClientFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// NewClient creates a transport for the configured provider.
// The returned client is instrumented with Prometheus metrics.
func NewClient(config *Config, logger *zap.Logger) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid llm config: %w", err)
	}

	var client Client
	switch config.Provider {
	case ProviderOpenAI:
		client = NewOpenAIClient(config)
	case ProviderGemini:
		client = NewGeminiClient(config)
	case ProviderRelay:
		client = NewRelayClient(config)
	default:
		return nil, fmt.Errorf("unknown provider %q", config.Provider)
	}

	return NewInstrumentedClient(client, config.Provider, logger), nil
}

// isTransportError reports whether err came from the network layer or a context deadline
func isTransportError(err error) bool {
	var urlErr *url.Error
	var netErr net.Error
	return errors.As(err, &urlErr) ||
		errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}
