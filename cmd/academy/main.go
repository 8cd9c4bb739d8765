// File path: cmd/academy/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vibeworks/academy/internal/api"
	"github.com/vibeworks/academy/internal/common"
	"github.com/vibeworks/academy/internal/config"
	"github.com/vibeworks/academy/internal/docs"
	"github.com/vibeworks/academy/internal/llm"
	"github.com/vibeworks/academy/internal/state"
	"github.com/vibeworks/academy/internal/workflow"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Warn("academy: .env file not loaded", "error", err)
	} else {
		logger.Info("academy: environment loaded from .env")
	}

	addr := flag.String("addr", "", "listen address (overrides config)")
	configPath := flag.String("config", "academy.yaml", "path to the YAML config file")
	docsDir := flag.String("docs", "", "documentation content directory (overrides config)")
	redisAddr := flag.String("redis", "", "redis address for the processing-state store (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("academy: config load failed", "error", err)
		fmt.Println("config error:", err)
		os.Exit(1)
	}
	if trimmed := strings.TrimSpace(*addr); trimmed != "" {
		cfg.Addr = trimmed
	}
	if trimmed := strings.TrimSpace(*docsDir); trimmed != "" {
		cfg.DocsDir = trimmed
	}
	if trimmed := strings.TrimSpace(*redisAddr); trimmed != "" {
		cfg.RedisAddr = trimmed
	}

	logger.Info("academy: startup initiated", "addr", cfg.Addr, "docs", cfg.DocsDir)

	provider := llm.NewProvider(cfg.OpenAIAPIKey, cfg.OpenAIEndpoint, cfg.ChatModel)
	logger.Info("academy: llm provider ready", "provider", provider.Name())

	docsIndex, err := docs.NewIndex(cfg.DocsDir)
	if err != nil {
		logger.Error("academy: docs index failed", "error", err)
		fmt.Println("docs index error:", err)
		os.Exit(1)
	}

	var store state.Store
	if cfg.RedisAddr != "" {
		redisStore, err := state.NewRedisStore(cfg.RedisAddr, cfg.StateTTL)
		if err != nil {
			logger.Error("academy: redis store unavailable", "addr", cfg.RedisAddr, "error", err)
			fmt.Println("redis error:", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		logger.Info("academy: using in-memory processing-state store")
		store = state.NewMemoryStore()
	}

	if reconciled, err := state.ReconcileStuck(ctx, store, cfg.StuckJobTTL); err != nil {
		logger.Warn("academy: startup reconciliation failed", "error", err)
	} else if reconciled > 0 {
		logger.Info("academy: reconciled stuck report jobs", "count", reconciled)
	}
	go state.RunJanitor(ctx, store, cfg.CleanupInterval, cfg.StateTTL, cfg.StuckJobTTL)

	processor := workflow.NewProcessor(provider, store, cfg.MaxDocumentLen, cfg.MaxChunkLen, cfg.MaxSummariesLen)

	serverCfg := api.Config{
		ChatTimeout:      cfg.ChatTimeout,
		APIKeyConfigured: strings.TrimSpace(cfg.OpenAIAPIKey) != "",
	}
	server, err := api.NewServer(provider, docsIndex, store, processor, serverCfg)
	if err != nil {
		logger.Error("academy: server construction failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}

	logger.Info("academy: server listening", "addr", cfg.Addr, "health", "/healthz")
	fmt.Printf("Serving on %s\n", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, server); err != nil {
		logger.Error("academy: server stopped", "error", err)
		fmt.Println("server stopped:", err)
	}
}
