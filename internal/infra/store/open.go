package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/Amanouazh/Pishoo-Ai/internal/config"
	"github.com/Amanouazh/Pishoo-Ai/internal/domain"
)

// Open selects a KV backend from config.
func Open(ctx context.Context, cfg *config.StoreConfig) (KV, error) {
	switch strings.ToLower(cfg.Backend) {
	case "sqlite":
		return NewSQLiteKV(ctx, cfg.Path)
	case "redis":
		return NewRedisKV(ctx, &cfg.Redis)
	case "memory":
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStoreDriver, cfg.Backend)
	}
}
