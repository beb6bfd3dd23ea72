package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// maxErrorBody bounds the upstream body kept on an UpstreamError
const maxErrorBody = 2048

// AuthError reports a missing or rejected credential.
// It is never retried; the user must supply a valid key.
type AuthError struct {
	Provider Provider
	Message  string
	Cause    error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s auth error: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s auth error: %s", e.Provider, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// UpstreamError reports a non-success response from the generation endpoint
type UpstreamError struct {
	Provider   Provider
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s upstream error: status %d: %s", e.Provider, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s upstream error: status %d", e.Provider, e.StatusCode)
}

// Retryable reports whether the status is worth retrying (429 and 5xx)
func (e *UpstreamError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// NetworkError reports a transport failure (timeout, DNS, connection reset)
type NetworkError struct {
	Provider Provider
	Cause    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s network error: %v", e.Provider, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// RelayError reports a failure the relay server classified itself, for kinds
// with no transport-level equivalent (malformed, invalid_input, cancelled,
// internal) and for the relay's own missing or rejected model key.
// Kind carries the relay's "kind" field unchanged. It is never retried.
type RelayError struct {
	Kind       string
	StatusCode int
	Message    string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("relay %s error: status %d: %s", e.Kind, e.StatusCode, e.Message)
}

// newUpstreamError builds the error for a failed status. 401 and 403 become
// an AuthError wrapping the UpstreamError so both errors.As checks succeed.
func newUpstreamError(provider Provider, status int, body string) error {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	upstream := &UpstreamError{Provider: provider, StatusCode: status, Body: body}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return &AuthError{Provider: provider, Message: "credential rejected", Cause: upstream}
	}
	return upstream
}

// IsRetryable reports whether err is a NetworkError or a retryable UpstreamError.
// AuthError is checked first because it may wrap an UpstreamError.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return false
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Retryable()
	}
	return false
}

// outcome returns a short metrics label for err
func outcome(err error) string {
	var authErr *AuthError
	var netErr *NetworkError
	var upstreamErr *UpstreamError
	var relayErr *RelayError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &authErr):
		return "auth_error"
	case errors.As(err, &relayErr):
		return "relay_" + relayErr.Kind
	case errors.As(err, &netErr):
		return "network_error"
	case errors.As(err, &upstreamErr):
		return "upstream_error"
	default:
		return "error"
	}
}
