package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayClient_PostsSourceText(t *testing.T) {
	var captured RelayRequest
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate-slides", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`[{"id":1,"title":"T","bullets":[],"type":"cover"}]`))
	}))
	defer server.Close()

	client := NewRelayClient(DefaultRelayConfig(server.URL + "/api/generate-slides"))
	text, err := client.Generate(context.Background(), Request{
		Prompt:     "ignored by the relay",
		SourceText: "quarterly report",
	})
	require.NoError(t, err)

	assert.Equal(t, "quarterly report", captured.Text)
	assert.Empty(t, authHeader)
	assert.Contains(t, text, `"cover"`)
}

func TestRelayClient_SendsBearerToken(t *testing.T) {
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := NewRelayClient(DefaultRelayConfig(server.URL)).Generate(context.Background(), Request{
		SourceText: "x",
		Credential: "relay-token",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer relay-token", authHeader)
}

func TestRelayClient_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		check     func(t *testing.T, err error)
		retryable bool
	}{
		{
			name:   "relay has no model key",
			status: http.StatusInternalServerError,
			body:   `{"error":"API key not set on server","kind":"auth"}`,
			check: func(t *testing.T, err error) {
				var relayErr *RelayError
				require.ErrorAs(t, err, &relayErr)
				assert.Equal(t, "auth", relayErr.Kind)
				assert.Contains(t, relayErr.Message, "API key not set on server")

				var authErr *AuthError
				assert.False(t, errors.As(err, &authErr))
			},
		},
		{
			name:   "relay rejects caller token",
			status: http.StatusUnauthorized,
			body:   `{"error":"Unauthorized","kind":"auth"}`,
			check: func(t *testing.T, err error) {
				var authErr *AuthError
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, ProviderRelay, authErr.Provider)
			},
		},
		{
			name:   "network kind",
			status: http.StatusGatewayTimeout,
			body:   `{"error":"upstream timed out","kind":"network"}`,
			check: func(t *testing.T, err error) {
				var netErr *NetworkError
				require.ErrorAs(t, err, &netErr)
			},
			retryable: true,
		},
		{
			name:   "upstream kind with details",
			status: http.StatusBadGateway,
			body:   `{"error":"generation failed","kind":"upstream","details":"status 500"}`,
			check: func(t *testing.T, err error) {
				var upstreamErr *UpstreamError
				require.ErrorAs(t, err, &upstreamErr)
				assert.Equal(t, http.StatusBadGateway, upstreamErr.StatusCode)
				assert.Equal(t, "generation failed: status 500", upstreamErr.Body)
			},
			retryable: true,
		},
		{
			name:   "malformed output keeps its kind",
			status: http.StatusUnprocessableEntity,
			body:   `{"error":"Model returned malformed slides","kind":"malformed","details":"response is not a JSON array"}`,
			check: func(t *testing.T, err error) {
				var relayErr *RelayError
				require.ErrorAs(t, err, &relayErr)
				assert.Equal(t, "malformed", relayErr.Kind)
				assert.Equal(t, http.StatusUnprocessableEntity, relayErr.StatusCode)
				assert.Equal(t, "Model returned malformed slides: response is not a JSON array", relayErr.Message)

				var upstreamErr *UpstreamError
				assert.False(t, errors.As(err, &upstreamErr))
			},
		},
		{
			name:   "invalid input keeps its kind",
			status: http.StatusBadRequest,
			body:   `{"error":"text is required","kind":"invalid_input"}`,
			check: func(t *testing.T, err error) {
				var relayErr *RelayError
				require.ErrorAs(t, err, &relayErr)
				assert.Equal(t, "invalid_input", relayErr.Kind)
			},
		},
		{
			name:   "rate limited is retried",
			status: http.StatusTooManyRequests,
			body:   `{"error":"Rate limit exceeded","kind":"rate_limited"}`,
			check: func(t *testing.T, err error) {
				var upstreamErr *UpstreamError
				require.ErrorAs(t, err, &upstreamErr)
				assert.Equal(t, http.StatusTooManyRequests, upstreamErr.StatusCode)
			},
			retryable: true,
		},
		{
			name:   "plain text body",
			status: http.StatusServiceUnavailable,
			body:   "service unavailable",
			check: func(t *testing.T, err error) {
				var upstreamErr *UpstreamError
				require.ErrorAs(t, err, &upstreamErr)
				assert.Equal(t, "service unavailable", upstreamErr.Body)
			},
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewRelayClient(DefaultRelayConfig(server.URL)).Generate(context.Background(), Request{SourceText: "x"})
			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, tt.retryable, IsRetryable(err))
		})
	}
}

func TestRelayClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewRelayClient(DefaultRelayConfig(url)).Generate(context.Background(), Request{SourceText: "x"})

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, ProviderRelay, netErr.Provider)
}
