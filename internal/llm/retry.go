package llm

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy bounds the retry decorator
type RetryPolicy struct {
	// MaxAttempts is the total number of calls, including the first
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy returns three attempts with a one second base delay
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    20 * time.Second,
	}
}

// RetryingClient decorates a Client with exponential backoff.
// Only NetworkError and retryable UpstreamError (429, 5xx) are retried;
// everything else is returned on the first failure.
type RetryingClient struct {
	next   Client
	policy RetryPolicy
	logger *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand

	// sleep waits for d or until ctx is done; replaced in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryingClient wraps next with the given policy
func NewRetryingClient(next Client, policy RetryPolicy, logger *zap.Logger) *RetryingClient {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = DefaultRetryPolicy().BaseDelay
	}
	if policy.MaxDelay < policy.BaseDelay {
		policy.MaxDelay = policy.BaseDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryingClient{
		next:   next,
		policy: policy,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:  sleepContext,
	}
}

// Generate calls the wrapped client until it succeeds, fails permanently,
// or the attempts are exhausted. The last error is returned unchanged.
func (c *RetryingClient) Generate(ctx context.Context, req Request) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.policy.MaxAttempts; attempt++ {
		text, err := c.next.Generate(ctx, req)
		if err == nil {
			if attempt > 0 {
				c.logger.Info("generation succeeded after retry", zap.Int("attempt", attempt+1))
			}
			return text, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return "", err
		}
		if attempt == c.policy.MaxAttempts-1 {
			c.logger.Warn("maximum generation attempts reached",
				zap.Int("max_attempts", c.policy.MaxAttempts),
				zap.Error(err))
			break
		}

		delay := c.backoff(attempt)
		c.logger.Info("retrying generation after delay",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))

		if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
			c.logger.Warn("generation retry cancelled", zap.Error(sleepErr))
			return "", lastErr
		}
	}
	return "", lastErr
}

// backoff returns base * 2^attempt scaled by a jitter factor in [0.5, 1.0), capped at MaxDelay
func (c *RetryingClient) backoff(attempt int) time.Duration {
	c.mu.Lock()
	jitter := 0.5 + c.rng.Float64()*0.5
	c.mu.Unlock()

	delay := float64(c.policy.BaseDelay) * math.Pow(2, float64(attempt)) * jitter
	if delay > float64(c.policy.MaxDelay) {
		delay = float64(c.policy.MaxDelay)
	}
	return time.Duration(delay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
