package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(config *Config) *GeminiClient {
	return &GeminiClient{config: config}
}

// Generate sends the prompt with the system instruction and returns the joined text parts
func (c *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Credential) == "" {
		return "", &AuthError{Provider: ProviderGemini, Message: "API key is required"}
	}

	opts := []option.ClientOption{option.WithAPIKey(req.Credential)}
	if c.config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(c.config.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer func() { _ = client.Close() }()

	model := client.GenerativeModel(c.config.Model)
	model.SetTemperature(c.config.Temperature)
	model.SetMaxOutputTokens(int32(c.config.MaxTokens))
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.timeout())
	defer cancel()

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", classifyGeminiError(err)
	}

	return extractTextFromResponse(resp)
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &UpstreamError{Provider: ProviderGemini, StatusCode: http.StatusOK, Body: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &UpstreamError{Provider: ProviderGemini, StatusCode: http.StatusOK, Body: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	return strings.Join(parts, ""), nil
}

// classifyGeminiError maps Google API errors onto the llm error taxonomy
func classifyGeminiError(err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		body := gErr.Message
		if body == "" {
			body = gErr.Body
		}
		return newUpstreamError(ProviderGemini, gErr.Code, body)
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.HTTPCode()
		if code <= 0 && apiErr.GRPCStatus() != nil {
			code = httpStatusFromCode(apiErr.GRPCStatus().Code())
		}
		if code > 0 {
			return newUpstreamError(ProviderGemini, code, apiErr.Error())
		}
	}

	if isTransportError(err) {
		return &NetworkError{Provider: ProviderGemini, Cause: err}
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		if st.Code() == codes.Unavailable || st.Code() == codes.DeadlineExceeded {
			return &NetworkError{Provider: ProviderGemini, Cause: err}
		}
		return newUpstreamError(ProviderGemini, httpStatusFromCode(st.Code()), st.Message())
	}

	return fmt.Errorf("gemini request failed: %w", err)
}

// httpStatusFromCode maps the gRPC codes Gemini returns to HTTP statuses
func httpStatusFromCode(code codes.Code) int {
	switch code {
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
