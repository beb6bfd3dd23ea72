package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient returns errs in order, then text
type scriptedClient struct {
	errs  []error
	text  string
	calls int
}

func (s *scriptedClient) Generate(_ context.Context, _ Request) (string, error) {
	s.calls++
	if s.calls <= len(s.errs) {
		return "", s.errs[s.calls-1]
	}
	return s.text, nil
}

func newTestRetryingClient(next Client, attempts int) (*RetryingClient, *[]time.Duration) {
	var delays []time.Duration
	client := NewRetryingClient(next, RetryPolicy{
		MaxAttempts: attempts,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    time.Second,
	}, nil)
	client.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return ctx.Err()
	}
	return client, &delays
}

func TestRetryingClient_RetriesTransientFailures(t *testing.T) {
	next := &scriptedClient{
		errs: []error{
			&NetworkError{Provider: ProviderOpenAI, Cause: errors.New("connection reset")},
			&UpstreamError{Provider: ProviderOpenAI, StatusCode: http.StatusServiceUnavailable},
		},
		text: "[]",
	}
	client, delays := newTestRetryingClient(next, 3)

	text, err := client.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "[]", text)
	assert.Equal(t, 3, next.calls)
	require.Len(t, *delays, 2)

	// jitter keeps each delay within [base*2^n/2, base*2^n)
	assert.GreaterOrEqual(t, (*delays)[0], 50*time.Millisecond)
	assert.Less(t, (*delays)[0], 100*time.Millisecond)
	assert.GreaterOrEqual(t, (*delays)[1], 100*time.Millisecond)
	assert.Less(t, (*delays)[1], 200*time.Millisecond)
}

func TestRetryingClient_DoesNotRetryPermanentFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"auth", &AuthError{Provider: ProviderOpenAI, Message: "API key is required"}},
		{"rejected key", newUpstreamError(ProviderOpenAI, http.StatusUnauthorized, "bad key")},
		{"bad request", &UpstreamError{Provider: ProviderOpenAI, StatusCode: http.StatusBadRequest}},
		{"untyped", errors.New("unexpected")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &scriptedClient{errs: []error{tt.err}}
			client, delays := newTestRetryingClient(next, 3)

			_, err := client.Generate(context.Background(), Request{})
			assert.Same(t, tt.err, err)
			assert.Equal(t, 1, next.calls)
			assert.Empty(t, *delays)
		})
	}
}

func TestRetryingClient_ReturnsLastErrorWhenExhausted(t *testing.T) {
	first := &UpstreamError{Provider: ProviderGemini, StatusCode: http.StatusTooManyRequests}
	last := &UpstreamError{Provider: ProviderGemini, StatusCode: http.StatusBadGateway}
	next := &scriptedClient{errs: []error{first, last}}
	client, delays := newTestRetryingClient(next, 2)

	_, err := client.Generate(context.Background(), Request{})
	assert.Same(t, last, err)
	assert.Equal(t, 2, next.calls)
	assert.Len(t, *delays, 1)
}

func TestRetryingClient_StopsOnCancellation(t *testing.T) {
	netErr := &NetworkError{Provider: ProviderOpenAI, Cause: errors.New("timeout")}
	next := &scriptedClient{errs: []error{netErr, netErr, netErr}}
	client, _ := newTestRetryingClient(next, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Generate(ctx, Request{})
	assert.Same(t, netErr, err)
	assert.Equal(t, 1, next.calls)
}

func TestRetryingClient_BackoffIsCapped(t *testing.T) {
	client := NewRetryingClient(&scriptedClient{}, RetryPolicy{
		MaxAttempts: 10,
		BaseDelay:   time.Second,
		MaxDelay:    3 * time.Second,
	}, nil)

	for attempt := 0; attempt < 8; attempt++ {
		assert.LessOrEqual(t, client.backoff(attempt), 3*time.Second)
	}
}

func TestNewRetryingClient_NormalizesPolicy(t *testing.T) {
	client := NewRetryingClient(&scriptedClient{}, RetryPolicy{}, nil)

	assert.Equal(t, 1, client.policy.MaxAttempts)
	assert.Equal(t, time.Second, client.policy.BaseDelay)
	assert.Equal(t, time.Second, client.policy.MaxDelay)
}
