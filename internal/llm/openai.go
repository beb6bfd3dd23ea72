package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client against an OpenAI-compatible chat-completion endpoint
type OpenAIClient struct {
	config     *Config
	httpClient *http.Client
}

// NewOpenAIClient creates a new chat-completion client.
// The underlying go-openai client is built per call because the credential is per call.
func NewOpenAIClient(config *Config) *OpenAIClient {
	return &OpenAIClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.timeout()},
	}
}

// Generate sends one system+user chat request and returns choices[0].message.content
func (c *OpenAIClient) Generate(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Credential) == "" {
		return "", &AuthError{Provider: ProviderOpenAI, Message: "API key is required"}
	}

	clientConfig := openai.DefaultConfig(req.Credential)
	if c.config.BaseURL != "" {
		clientConfig.BaseURL = c.config.BaseURL
	}
	clientConfig.HTTPClient = c.httpClient
	client := openai.NewClientWithConfig(clientConfig)

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &UpstreamError{Provider: ProviderOpenAI, StatusCode: http.StatusOK, Body: "response contained no choices"}
	}

	return resp.Choices[0].Message.Content, nil
}

// classifyOpenAIError maps go-openai errors onto the llm error taxonomy
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return newUpstreamError(ProviderOpenAI, apiErr.HTTPStatusCode, apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return newUpstreamError(ProviderOpenAI, reqErr.HTTPStatusCode, string(reqErr.Body))
	}

	if isTransportError(err) {
		return &NetworkError{Provider: ProviderOpenAI, Cause: err}
	}

	// A 2xx body that is not a chat-completion envelope
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &UpstreamError{
			Provider:   ProviderOpenAI,
			StatusCode: http.StatusOK,
			Body:       fmt.Sprintf("invalid response envelope: %v", err),
		}
	}

	return fmt.Errorf("openai request failed: %w", err)
}
