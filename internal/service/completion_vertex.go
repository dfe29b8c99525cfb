package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"spec-summarizer/internal/domain"
	apperrors "spec-summarizer/pkg/errors"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// VertexCompleter implements domain.Completer with Gemini models on Vertex AI.
// Credentials come from Application Default Credentials.
type VertexCompleter struct {
	client  *genai.Client
	timeout time.Duration
	logger  domain.Logger
}

func NewVertexCompleter(ctx context.Context, projectID, location string, timeout time.Duration, logger domain.Logger) (*VertexCompleter, error) {
	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex ai client: %w", err)
	}
	return &VertexCompleter{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}, nil
}

func (c *VertexCompleter) Complete(ctx context.Context, systemMessage, userMessage, model string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	gm := c.client.GenerativeModel(model)
	gm.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemMessage)},
	}

	resp, err := gm.GenerateContent(ctx, genai.Text(userMessage))
	if err != nil {
		return "", classifyGRPCError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", apperrors.NewCompletionError(apperrors.CompletionMalformed,
			"The completion service returned an empty response. Please try again.", domain.ErrEmptyCompletion)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	answer := sb.String()
	if strings.TrimSpace(answer) == "" {
		return "", apperrors.NewCompletionError(apperrors.CompletionMalformed,
			"The completion service returned an empty response. Please try again.", domain.ErrEmptyCompletion)
	}

	if resp.UsageMetadata != nil {
		c.logger.Debug("Vertex completion received",
			"model", model,
			"prompt_tokens", resp.UsageMetadata.PromptTokenCount,
			"completion_tokens", resp.UsageMetadata.CandidatesTokenCount,
		)
	}
	return answer, nil
}

// Close releases the underlying gRPC connection.
func (c *VertexCompleter) Close() error {
	return c.client.Close()
}

func classifyGRPCError(err error) error {
	switch status.Code(err) {
	case codes.Unauthenticated, codes.PermissionDenied:
		return classifyStatus(http.StatusUnauthorized, err)
	case codes.ResourceExhausted:
		return classifyStatus(http.StatusTooManyRequests, err)
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return classifyStatus(0, err)
	case codes.Internal:
		return classifyStatus(http.StatusInternalServerError, err)
	default:
		return classifyStatus(http.StatusBadRequest, err)
	}
}
