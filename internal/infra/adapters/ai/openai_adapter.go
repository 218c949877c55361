package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/Amanouazh/Pishoo-Ai/internal/domain"
	"github.com/Amanouazh/Pishoo-Ai/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.CompletionAdapter = (*OpenAIAdapter)(nil)

// OpenAIAdapter targets Chat Completions, for OpenAI-compatible
// gateways and self-hosted models. Selected with ai.provider=openai.
type OpenAIAdapter struct {
	base    string
	models  []adapter.ModelInfo
	httpCli *http.Client
}

func NewOpenAIAdapter(base string, models []adapter.ModelInfo, timeout time.Duration) *OpenAIAdapter {
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIAdapter{
		base:    strings.TrimRight(base, "/"),
		models:  models,
		httpCli: &http.Client{Timeout: timeout},
	}
}

func (o *OpenAIAdapter) Complete(ctx context.Context, model, prompt, credential string) (string, error) {
	if credential == "" {
		return "", domain.ErrMissingCredential
	}

	client := openai.NewClient(
		option.WithAPIKey(credential),
		option.WithBaseURL(o.base),
		option.WithHTTPClient(o.httpCli),
		option.WithMaxRetries(0), // every failure requires a new user action
	)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			reason := apiErr.Message
			if reason == "" {
				reason = http.StatusText(apiErr.StatusCode)
			}
			return "", &domain.APIError{Status: apiErr.StatusCode, Reason: reason}
		}
		return "", &domain.TransportError{Err: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", domain.ErrMalformedResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAIAdapter) ListModels(ctx context.Context, credential string) ([]adapter.ModelInfo, error) {
	return append([]adapter.ModelInfo(nil), o.models...), nil
}
