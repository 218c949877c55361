package ai

import (
	"context"
	"fmt"

	"github.com/Amanouazh/Pishoo-Ai/internal/domain/ports/adapter"
)

var _ adapter.CompletionAdapter = (*NoopAdapter)(nil)

// NoopAdapter echoes the prompt back. Used in dev mode so the whole
// flow can be exercised without a credential or network.
type NoopAdapter struct{}

func NewNoopAdapter() *NoopAdapter { return &NoopAdapter{} }

func (n *NoopAdapter) Complete(ctx context.Context, model, prompt, credential string) (string, error) {
	return fmt.Sprintf("[%s] %s", model, prompt), nil
}

func (n *NoopAdapter) ListModels(ctx context.Context, credential string) ([]adapter.ModelInfo, error) {
	return []adapter.ModelInfo{{Name: "noop", Label: "Noop", Description: "Echoes the prompt"}}, nil
}
