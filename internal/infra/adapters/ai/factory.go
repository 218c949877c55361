package ai

import (
	"fmt"
	"strings"

	"github.com/Amanouazh/Pishoo-Ai/internal/config"
	"github.com/Amanouazh/Pishoo-Ai/internal/domain"
	"github.com/Amanouazh/Pishoo-Ai/internal/domain/ports/adapter"
)

// New builds the configured provider adapter, wrapped with the
// concurrency cap.
func New(cfg *config.AIConfig) (adapter.CompletionAdapter, error) {
	models := make([]adapter.ModelInfo, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		models = append(models, adapter.ModelInfo{Name: m.Name, Label: m.Label, Description: m.Description})
	}

	var inner adapter.CompletionAdapter
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		inner = NewGeminiAdapter(cfg.BaseURL, models, cfg.Timeout)
	case "gemini-sdk":
		inner = NewGeminiSDKAdapter(cfg.BaseURL, models, cfg.Timeout)
	case "openai":
		inner = NewOpenAIAdapter(cfg.BaseURL, models, cfg.Timeout)
	case "noop":
		inner = NewNoopAdapter()
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAIProvider, cfg.Provider)
	}
	return NewLimitedAI(inner, cfg.ConcurrentLimit), nil
}
