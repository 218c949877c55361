package adapter

import "context"

// ModelInfo describes one selectable completion model.
type ModelInfo struct {
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
}

// CompletionAdapter is the outbound port to a generative-language
// provider. Complete sends a single user turn and returns the full reply
// text: one request, one response, no streaming, no retries. The
// credential is supplied per call because it lives in user settings and
// may change between sends.
type CompletionAdapter interface {
	Complete(ctx context.Context, model, prompt, credential string) (string, error)
	ListModels(ctx context.Context, credential string) ([]ModelInfo, error)
}

// Tokenizer estimates token counts for message accounting. Estimates are
// best-effort and never block a send.
type Tokenizer interface {
	Count(text string) int
}
