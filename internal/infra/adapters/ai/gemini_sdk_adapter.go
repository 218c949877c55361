package ai

import (
	"context"
	"errors"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/Amanouazh/Pishoo-Ai/internal/domain"
	"github.com/Amanouazh/Pishoo-Ai/internal/domain/ports/adapter"
)

var _ adapter.CompletionAdapter = (*GeminiSDKAdapter)(nil)

// GeminiSDKAdapter is the official-SDK variant of the Gemini backend.
// Unlike GeminiAdapter it can list live models, at the cost of the SDK
// choosing its own auth transport. Selected with ai.provider=gemini-sdk.
type GeminiSDKAdapter struct {
	base    string
	models  []adapter.ModelInfo
	timeout time.Duration

	mu     sync.Mutex
	client *genai.Client
	key    string // credential the cached client was built with
}

func NewGeminiSDKAdapter(base string, models []adapter.ModelInfo, timeout time.Duration) *GeminiSDKAdapter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiSDKAdapter{base: base, models: models, timeout: timeout}
}

// clientFor rebuilds the SDK client whenever the credential changes;
// construction is local and cheap.
func (g *GeminiSDKAdapter) clientFor(ctx context.Context, credential string) (*genai.Client, error) {
	if credential == "" {
		return nil, domain.ErrMissingCredential
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil && g.key == credential {
		return g.client, nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  credential,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: g.base,
		},
	})
	if err != nil {
		return nil, err
	}
	g.client = c
	g.key = credential
	return c, nil
}

func (g *GeminiSDKAdapter) Complete(ctx context.Context, model, prompt, credential string) (string, error) {
	client, err := g.clientFor(ctx, credential)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &domain.APIError{Status: apiErr.Code, Reason: apiErr.Message}
		}
		return "", &domain.TransportError{Err: err}
	}

	if resp == nil || len(resp.Candidates) == 0 ||
		resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 ||
		resp.Candidates[0].Content.Parts[0].Text == "" {
		return "", domain.ErrMalformedResponse
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func (g *GeminiSDKAdapter) ListModels(ctx context.Context, credential string) ([]adapter.ModelInfo, error) {
	client, err := g.clientFor(ctx, credential)
	if err != nil {
		// Without a credential the curated catalog still works.
		return append([]adapter.ModelInfo(nil), g.models...), nil
	}

	var out []adapter.ModelInfo
	for m := range client.Models.All(ctx) {
		if m.Name != "" {
			out = append(out, adapter.ModelInfo{Name: m.Name, Description: m.Description})
		}
	}
	if len(out) == 0 {
		return append([]adapter.ModelInfo(nil), g.models...), nil
	}
	return out, nil
}
