package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/slide-deck-generator/internal/deck"
	"github.com/jonathan/slide-deck-generator/internal/llm"
)

// statusClientClosedRequest is reported when the caller went away mid-generation
const statusClientClosedRequest = 499

// ErrorResponse is the JSON body of every error reply.
// It matches llm.RelayErrorResponse so the relay client can rebuild typed errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}

// errNoServerKey is reported when the relay has no model credential configured
var errNoServerKey = &llm.AuthError{Provider: llm.ProviderRelay, Message: "API key not set on server"}

// serverKeyDetails tells relay callers the credential problem is not theirs
const serverKeyDetails = "the relay's own model credential is missing or invalid; contact the server operator"

// HTTPStatus returns the status code for a generation failure
func HTTPStatus(kind deck.FailureKind) int {
	switch kind {
	case deck.FailureAuth:
		return http.StatusInternalServerError
	case deck.FailureInvalidInput:
		return http.StatusBadRequest
	case deck.FailureUpstream:
		return http.StatusBadGateway
	case deck.FailureNetwork:
		return http.StatusGatewayTimeout
	case deck.FailureMalformed:
		return http.StatusUnprocessableEntity
	case deck.FailureCancelled:
		return statusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// generationError builds the error body for a failed generation.
// Details never include the credential; upstream bodies are already truncated.
func generationError(err error) (int, ErrorResponse) {
	kind := deck.Classify(err)
	resp := ErrorResponse{Kind: string(kind)}

	var authErr *llm.AuthError
	var upstreamErr *llm.UpstreamError
	var malformed *deck.MalformedOutputError
	switch {
	case errors.Is(err, errNoServerKey):
		resp.Error = "API key not set on server"
		resp.Details = serverKeyDetails
	case errors.As(err, &authErr):
		resp.Error = "Model provider rejected the server API key"
		resp.Details = serverKeyDetails
	case errors.As(err, &upstreamErr):
		resp.Error = "Model provider error"
		resp.Details = upstreamErr.Body
	case errors.As(err, &malformed):
		resp.Error = "Model returned malformed slides"
		resp.Details = malformed.Reason
	default:
		resp.Error = deck.UserMessage(err)
	}
	return HTTPStatus(kind), resp
}
