package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pantry-recipes/internal/api"
	"pantry-recipes/internal/core/ai/cache"
	"pantry-recipes/internal/core/ai/gemini"
	"pantry-recipes/internal/core/ai/openrouter"
	"pantry-recipes/internal/core/ai/provider"
	"pantry-recipes/internal/core/ai/queue"
	"pantry-recipes/internal/core/ai/service"
	"pantry-recipes/internal/core/recipe"
	"pantry-recipes/internal/infrastructure/config"
	"pantry-recipes/internal/infrastructure/database"
	"pantry-recipes/internal/pkg/common"

	"go.uber.org/zap"
)

const startupTimeout = 10 * time.Second

// candidateSource 可關閉並檢查連線的候選食譜來源
type candidateSource interface {
	recipe.CandidateSource
	Ping(ctx context.Context) error
}

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.App.Name); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("openrouter_api_key", config.MaskAPIKey(cfg.OpenRouter.APIKey)),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Bool("database_configured", cfg.Database.URL != ""),
	)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	aiProvider, err := newProvider(ctx, cfg)
	if err != nil {
		common.LogFatal("Failed to initialize AI provider", zap.Error(err))
	}

	store, err := newCacheStore(ctx, cfg)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}

	aiService := service.NewService(aiProvider, store, queue.NewManager(cfg.AI), cfg.AI)
	defer func() {
		if err := aiService.Close(); err != nil {
			common.LogError("Failed to close AI service", zap.Error(err))
		}
	}()

	source, closeSource, err := newCandidateSource(ctx, cfg)
	if err != nil {
		common.LogFatal("Failed to initialize candidate source", zap.Error(err))
	}
	defer closeSource()

	suggestionService := recipe.NewSuggestionService(aiService, source, recipe.Options{
		DefaultLimit:   cfg.Suggest.DefaultLimit,
		GeneratedCount: cfg.Suggest.GeneratedCount,
		CandidateLimit: cfg.Suggest.CandidateLimit,
		BroadenLimit:   cfg.Suggest.BroadenLimit,
		BroadenBelow:   cfg.Suggest.BroadenBelow,
	})

	router, err := api.SetupRouter(cfg, api.Services{
		Suggestions: suggestionService,
		AI:          aiService,
		Source:      source,
	})
	if err != nil {
		common.LogFatal("Failed to setup router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}

// newProvider 依設定建立模型提供者
func newProvider(ctx context.Context, cfg *config.Config) (provider.Provider, error) {
	switch cfg.AI.Provider {
	case "openrouter":
		return openrouter.NewClient(provider.Config{
			APIKey:  cfg.OpenRouter.APIKey,
			Model:   cfg.OpenRouter.Model,
			BaseURL: cfg.OpenRouter.BaseURL,
			Timeout: cfg.OpenRouter.Timeout,
			AppName: cfg.App.Name,
		}), nil
	case "gemini":
		return gemini.NewClient(ctx, provider.Config{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		})
	default:
		common.LogWarn("未設定 AI 提供者，僅使用本地生成")
		return provider.Disabled{}, nil
	}
}

// newCacheStore 依設定建立緩存，停用時回傳 nil
func newCacheStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	if cfg.Cache.Backend == "redis" {
		return cache.NewRedisStore(ctx, cfg.Redis, cfg.Cache)
	}
	return cache.NewManager(cfg.Cache), nil
}

// newCandidateSource 有 DATABASE_URL 時使用 Postgres，否則使用記憶體來源
func newCandidateSource(ctx context.Context, cfg *config.Config) (candidateSource, func(), error) {
	if cfg.Database.URL == "" {
		common.LogWarn("DATABASE_URL 未設定，使用記憶體候選食譜來源")
		return recipe.NewMemorySource(), func() {}, nil
	}

	store, err := database.NewCandidateStore(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			common.LogError("Failed to close database", zap.Error(err))
		}
	}, nil
}
