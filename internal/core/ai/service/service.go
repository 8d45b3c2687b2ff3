package service

import (
	"context"
	"errors"
	"time"

	"pantry-recipes/internal/core/ai/cache"
	"pantry-recipes/internal/core/ai/provider"
	"pantry-recipes/internal/core/ai/queue"
	"pantry-recipes/internal/infrastructure/config"
	"pantry-recipes/internal/pkg/common"

	"go.uber.org/zap"
)

// Service AI 服務：緩存 → 呼叫名額 → 提供者
type Service struct {
	provider        provider.Provider
	store           cache.Store
	gate            *queue.Manager
	jsonTemperature float64
	textTemperature float64
}

// NewService 創建 AI 服務，store 與 gate 可為 nil
func NewService(p provider.Provider, store cache.Store, gate *queue.Manager, cfg config.AIConfig) *Service {
	if p == nil {
		p = provider.Disabled{}
	}
	return &Service{
		provider:        p,
		store:           store,
		gate:            gate,
		jsonTemperature: cfg.JSONTemperature,
		textTemperature: cfg.TextTemperature,
	}
}

// CompleteJSON 要求模型輸出 JSON
func (s *Service) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	return s.complete(ctx, &provider.Request{
		Mode:         provider.ModeJSON,
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    maxTokens,
		Temperature:  s.jsonTemperature,
	})
}

// CompleteText 純文字補全
func (s *Service) CompleteText(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	return s.complete(ctx, &provider.Request{
		Mode:         provider.ModeText,
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    maxTokens,
		Temperature:  s.textTemperature,
	})
}

func (s *Service) complete(ctx context.Context, req *provider.Request) (string, error) {
	start := time.Now()
	mode := string(req.Mode)
	key := cache.Key(mode, req.MaxTokens, req.SystemPrompt, req.UserPrompt)

	if s.store != nil {
		value, err := s.store.Get(ctx, key)
		switch {
		case err == nil && value != "":
			common.LogAICall(mode, time.Since(start), true, nil)
			return value, nil
		case err != nil && !errors.Is(err, common.ErrCacheMiss):
			common.LogWarn("讀取 AI 緩存失敗", zap.Error(err))
		}
	}

	if s.gate != nil {
		release, err := s.gate.Acquire(ctx)
		if err != nil {
			common.LogAICall(mode, time.Since(start), false, err)
			return "", err
		}
		defer release()
	}

	content, err := s.provider.Complete(ctx, req)
	common.LogAICall(mode, time.Since(start), false, err)
	if err != nil {
		return "", err
	}

	if s.store != nil && cacheable(req, content) {
		if err := s.store.Set(ctx, key, content); err != nil {
			common.LogWarn("寫入 AI 緩存失敗", zap.Error(err))
		}
	}
	return content, nil
}

// cacheable 空回覆不緩存，JSON 模式只緩存可解析的回覆
func cacheable(req *provider.Request, content string) bool {
	if content == "" || content == req.EmptyReply() {
		return false
	}
	if req.Mode != provider.ModeJSON {
		return true
	}
	var parsed interface{}
	return common.ParseJSONLenient(content, &parsed) == nil
}

// ProviderName 目前使用的提供者
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// Model 目前使用的模型
func (s *Service) Model() string {
	return s.provider.GetModel()
}

// CacheStats 緩存統計，未啟用時回傳 nil
func (s *Service) CacheStats() map[string]interface{} {
	if s.store == nil {
		return nil
	}
	return s.store.GetStats()
}

// QueueStatus 呼叫名額狀態，未啟用時回傳 nil
func (s *Service) QueueStatus() *queue.Status {
	if s.gate == nil {
		return nil
	}
	return s.gate.GetQueueStatus()
}

// Close 釋放提供者與緩存資源
func (s *Service) Close() error {
	var errs []error
	if s.gate != nil {
		s.gate.Close()
	}
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	errs = append(errs, s.provider.Close())
	return errors.Join(errs...)
}
