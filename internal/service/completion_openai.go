package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"spec-summarizer/internal/domain"
	apperrors "spec-summarizer/pkg/errors"

	"github.com/sashabaranov/go-openai"
)

// OpenAICompleter implements domain.Completer against the OpenAI chat completions API.
type OpenAICompleter struct {
	client *openai.Client
	logger domain.Logger
}

// NewOpenAICompleter creates a completer for the given key. baseURL may be
// empty to use the public endpoint; timeout applies to each HTTP call.
func NewOpenAICompleter(apiKey, baseURL string, timeout time.Duration, logger domain.Logger) *OpenAICompleter {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}
	config.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAICompleter{
		client: openai.NewClientWithConfig(config),
		logger: logger,
	}
}

func (c *OpenAICompleter) Complete(ctx context.Context, systemMessage, userMessage, model string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", apperrors.NewCompletionError(apperrors.CompletionMalformed,
			"The completion service returned an empty response. Please try again.", domain.ErrEmptyCompletion)
	}

	c.logger.Debug("OpenAI completion received",
		"model", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if status == 0 && (errors.As(err, &syntaxErr) || errors.As(err, &typeErr)) {
		return apperrors.NewCompletionError(apperrors.CompletionMalformed,
			"The completion service returned a response that could not be read.", err)
	}
	return classifyStatus(status, err)
}

// classifyStatus maps an HTTP status from a completion backend to a
// user-facing completion error. Status 0 means the call never got a response.
func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.NewCompletionError(apperrors.CompletionAuth,
			"The completion service rejected the API key. Check the configured credentials.", err)
	case status == http.StatusTooManyRequests:
		return apperrors.NewCompletionError(apperrors.CompletionRateLimit,
			"The completion service is rate limiting requests. Wait a moment and try again.", err)
	case status == 0:
		return apperrors.NewCompletionError(apperrors.CompletionNetwork,
			"Could not reach the completion service. Check the network and try again.", err)
	case status >= 500:
		return apperrors.NewCompletionError(apperrors.CompletionService,
			"The completion service is unavailable right now. Please try again.", err)
	default:
		return apperrors.NewCompletionError(apperrors.CompletionService,
			"The completion service could not process the request.", err)
	}
}
