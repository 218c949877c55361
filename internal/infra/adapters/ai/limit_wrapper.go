package ai

import (
	"context"

	"github.com/Amanouazh/Pishoo-Ai/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.CompletionAdapter = (*limitedAI)(nil)

type limitedAI struct {
	inner adapter.CompletionAdapter
	sem   chan struct{}
}

// NewLimitedAI caps concurrent provider calls across all sessions.
func NewLimitedAI(inner adapter.CompletionAdapter, maxConcurrent int) adapter.CompletionAdapter {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedAI{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedAI) Complete(ctx context.Context, model, prompt, credential string) (string, error) {
	select {
	case l.sem <- struct{}{}:
		defer func() { <-l.sem }()
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return l.inner.Complete(ctx, model, prompt, credential)
}

func (l *limitedAI) ListModels(ctx context.Context, credential string) ([]adapter.ModelInfo, error) {
	return l.inner.ListModels(ctx, credential)
}
