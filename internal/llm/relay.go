package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxRelayResponse bounds how much of a relay response is read
const maxRelayResponse = 4 << 20

// RelayRequest is the body accepted by the relay generate endpoint
type RelayRequest struct {
	Text string `json:"text"`
}

// RelayErrorResponse is the error body returned by the relay
type RelayErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}

// RelayClient implements Client by posting the source text to a relay server.
// The relay holds the model credential; the per-call credential, if any,
// is sent as a bearer token to authenticate against the relay itself.
type RelayClient struct {
	config     *Config
	httpClient *http.Client
}

// NewRelayClient creates a new relay client
func NewRelayClient(config *Config) *RelayClient {
	return &RelayClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.timeout()},
	}
}

// Generate posts {text} and returns the response body, which is deck JSON
func (c *RelayClient) Generate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(RelayRequest{Text: req.SourceText})
	if err != nil {
		return "", fmt.Errorf("failed to marshal relay request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.RelayURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create relay request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if token := strings.TrimSpace(req.Credential); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &NetworkError{Provider: ProviderRelay, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxRelayResponse))
	if err != nil {
		return "", &NetworkError{Provider: ProviderRelay, Cause: fmt.Errorf("failed to read relay response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", relayError(resp.StatusCode, respBody)
	}

	return string(respBody), nil
}

// Relay error kinds that map onto transport errors
const (
	relayKindAuth     = "auth"
	relayKindNetwork  = "network"
	relayKindUpstream = "upstream"
)

// relayError rebuilds the typed error the relay reported, falling back to UpstreamError.
// An auth kind on 401/403 means the relay rejected the caller's token; on any
// other status it is the relay's own model key, which the caller cannot fix.
func relayError(statusCode int, body []byte) error {
	var errResp RelayErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return newUpstreamError(ProviderRelay, statusCode, string(body))
	}

	message := errResp.Error
	if errResp.Details != "" {
		message = message + ": " + errResp.Details
	}

	switch errResp.Kind {
	case relayKindAuth:
		if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
			return &AuthError{Provider: ProviderRelay, Message: message}
		}
		return &RelayError{Kind: errResp.Kind, StatusCode: statusCode, Message: message}
	case relayKindNetwork:
		return &NetworkError{Provider: ProviderRelay, Cause: errors.New(message)}
	case relayKindUpstream, "":
		return newUpstreamError(ProviderRelay, statusCode, message)
	default:
		if statusCode == http.StatusTooManyRequests {
			return newUpstreamError(ProviderRelay, statusCode, message)
		}
		return &RelayError{Kind: errResp.Kind, StatusCode: statusCode, Message: message}
	}
}
