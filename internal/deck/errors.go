package deck

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/jonathan/slide-deck-generator/internal/llm"
)

// maxSnippetRunes bounds the offending text kept on a MalformedOutputError
const maxSnippetRunes = 200

// ErrEmptySource is returned when there is no text to convert
var ErrEmptySource = errors.New("source text is empty")

// MalformedOutputError reports model output that is not a structurally valid deck.
// It is not retried automatically; the same prompt tends to reproduce the same shape.
type MalformedOutputError struct {
	Reason string
	// Field locates the failure, e.g. "[2].bullets"; empty for whole-document failures
	Field string
	// Snippet is the offending text, truncated for diagnostics
	Snippet string
	Cause   error
}

func (e *MalformedOutputError) Error() string {
	msg := "malformed model output: " + e.Reason
	if e.Field != "" {
		msg = fmt.Sprintf("malformed model output at %s: %s", e.Field, e.Reason)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Cause
}

func newMalformed(reason, field, text string, cause error) *MalformedOutputError {
	return &MalformedOutputError{
		Reason:  reason,
		Field:   field,
		Snippet: truncateRunes(text, maxSnippetRunes),
		Cause:   cause,
	}
}

// truncateRunes cuts s to at most n runes, marking the cut with "..."
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

// FailureKind groups errors by what the user should do about them
type FailureKind string

// Failure kinds, also used as the "kind" of relay error responses
const (
	FailureNone         FailureKind = ""
	FailureAuth         FailureKind = "auth"
	FailureNetwork      FailureKind = "network"
	FailureUpstream     FailureKind = "upstream"
	FailureMalformed    FailureKind = "malformed"
	FailureInvalidInput FailureKind = "invalid_input"
	FailureCancelled    FailureKind = "cancelled"
	FailureInternal     FailureKind = "internal"
	// FailureServerConfig is a relay that has no usable model key of its own
	FailureServerConfig FailureKind = "server_config"
)

// Classify maps an error from Generator.Generate to its FailureKind.
// AuthError is checked before UpstreamError because a rejected key wraps both.
// A relay-reported kind is kept, so both transports classify alike.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureNone
	}

	var relayErr *llm.RelayError
	var authErr *llm.AuthError
	var netErr *llm.NetworkError
	var upstreamErr *llm.UpstreamError
	var malformedErr *MalformedOutputError

	switch {
	case errors.Is(err, ErrEmptySource):
		return FailureInvalidInput
	case errors.As(err, &authErr):
		return FailureAuth
	case errors.As(err, &relayErr):
		return relayFailure(relayErr.Kind)
	case errors.Is(err, context.Canceled):
		return FailureCancelled
	case errors.As(err, &netErr):
		return FailureNetwork
	case errors.As(err, &upstreamErr):
		return FailureUpstream
	case errors.As(err, &malformedErr):
		return FailureMalformed
	default:
		return FailureInternal
	}
}

func relayFailure(kind string) FailureKind {
	switch k := FailureKind(kind); k {
	case FailureMalformed, FailureInvalidInput, FailureCancelled, FailureServerConfig:
		return k
	case FailureAuth:
		return FailureServerConfig
	default:
		return FailureInternal
	}
}

// UserMessage returns the single notification shown to a user for err
func UserMessage(err error) string {
	switch Classify(err) {
	case FailureNone:
		return ""
	case FailureAuth:
		return "Failed to generate slides. Please check your API key and try again."
	case FailureNetwork, FailureUpstream:
		return "The generation service is unavailable right now. Please try again."
	case FailureMalformed:
		return "Received an unexpected response from the model. Please retry."
	case FailureInvalidInput:
		return "Please provide some text to convert into slides."
	case FailureCancelled:
		return "Slide generation was cancelled."
	case FailureServerConfig:
		return "The slide service is not configured with a model API key. Please contact its operator."
	default:
		return "Failed to generate slides."
	}
}
