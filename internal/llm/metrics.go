package llm

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slides_llm_requests_total",
			Help: "Total number of text-generation requests.",
		},
		[]string{"provider", "outcome"},
	)
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slides_llm_request_duration_seconds",
			Help:    "Histogram of text-generation request durations.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		},
		[]string{"provider"},
	)
	responseBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slides_llm_response_bytes",
			Help:    "Size of generated text returned by the transport.",
			Buckets: prometheus.ExponentialBuckets(256, 2, 8),
		},
		[]string{"provider"},
	)
)

// InstrumentedClient records metrics and debug logs around another Client.
// It never logs the credential or the prompt body.
type InstrumentedClient struct {
	next     Client
	provider Provider
	logger   *zap.Logger
}

// NewInstrumentedClient wraps next
func NewInstrumentedClient(next Client, provider Provider, logger *zap.Logger) *InstrumentedClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedClient{next: next, provider: provider, logger: logger}
}

// Generate delegates to the wrapped client
func (c *InstrumentedClient) Generate(ctx context.Context, req Request) (string, error) {
	provider := string(c.provider)
	c.logger.Debug("sending generation request",
		zap.String("provider", provider),
		zap.Int("prompt_bytes", len(req.Prompt)),
		zap.Int("source_bytes", len(req.SourceText)))

	start := time.Now()
	text, err := c.next.Generate(ctx, req)
	duration := time.Since(start)

	requestsTotal.WithLabelValues(provider, outcome(err)).Inc()
	requestDuration.WithLabelValues(provider).Observe(duration.Seconds())

	if err != nil {
		c.logger.Warn("generation request failed",
			zap.String("provider", provider),
			zap.Duration("duration", duration),
			zap.Error(err))
		return "", err
	}

	responseBytes.WithLabelValues(provider).Observe(float64(len(text)))
	c.logger.Debug("generation response received",
		zap.String("provider", provider),
		zap.Duration("duration", duration),
		zap.Int("response_bytes", len(text)))

	return text, nil
}
