// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Amanouazh/Pishoo-Ai/internal/config"
	aiAdapters "github.com/Amanouazh/Pishoo-Ai/internal/infra/adapters/ai"
	"github.com/Amanouazh/Pishoo-Ai/internal/infra/logging"
	"github.com/Amanouazh/Pishoo-Ai/internal/infra/store"
	"github.com/Amanouazh/Pishoo-Ai/internal/infra/web"
	"github.com/Amanouazh/Pishoo-Ai/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "development mode (console logs, noop AI allowed)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	// ---- Store ----
	kv, err := store.Open(ctx, &cfg.Store)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("store")
	}
	defer kv.Close()

	// ---- Repositories ----
	sessionRepo := store.NewSessionRepo(ctx, kv, logger)
	settingsRepo := store.NewSettingsRepo(kv, logger)

	// ---- AI adapter ----
	provider := cfg.AI.Provider
	aiAdapter, err := aiAdapters.New(&cfg.AI)
	if err != nil {
		logger.Fatal().Err(err).Msg("ai adapter")
	}
	logger.Info().Str("provider", provider).Str("model", cfg.AI.DefaultModel).Msg("AI adapter ready")

	// ---- Use cases ----
	tokenizer := aiAdapters.NewTokenEstimator()
	chatUC := usecase.NewChatUseCase(sessionRepo, settingsRepo, aiAdapter, tokenizer, provider, logger)
	transferUC := usecase.NewTransferUseCase(sessionRepo, settingsRepo)

	// ---- HTTP ----
	server := web.NewServer(sessionRepo, settingsRepo, chatUC, transferUC, logger)
	httpSrv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", httpSrv.Addr).Msg("HTTP server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
