package usecase

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Amanouazh/Pishoo-Ai/internal/domain/ports/adapter"
	"github.com/Amanouazh/Pishoo-Ai/internal/infra/store"
)

// fakeAI is a scriptable completion adapter used by unit tests.
type fakeAI struct {
	mu    sync.Mutex
	calls int

	reply string
	err   error

	// Optional hooks for concurrency tests: each call signals started,
	// then blocks until release is closed.
	started chan struct{}
	release chan struct{}
}

func (f *fakeAI) Complete(ctx context.Context, model, prompt, credential string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.reply, f.err
}

func (f *fakeAI) ListModels(ctx context.Context, credential string) ([]adapter.ModelInfo, error) {
	return []adapter.ModelInfo{{Name: "gemini-1.5-flash"}}, nil
}

func (f *fakeAI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// flatTokenizer makes token counts deterministic in assertions.
type flatTokenizer struct{}

func (flatTokenizer) Count(text string) int { return len(text) }

// newTestRepos wires real repositories over the in-memory store.
func newTestRepos(ctx context.Context) (*store.SessionRepo, *store.SettingsRepo) {
	kv := store.NewMemoryKV()
	logger := zerolog.Nop()
	return store.NewSessionRepo(ctx, kv, &logger), store.NewSettingsRepo(kv, &logger)
}

func newTestChatUC(sessions *store.SessionRepo, settings *store.SettingsRepo, ai adapter.CompletionAdapter) *chatUC {
	logger := zerolog.Nop()
	return NewChatUseCase(sessions, settings, ai, flatTokenizer{}, "test", &logger)
}
