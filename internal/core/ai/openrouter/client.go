package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"pantry-recipes/internal/core/ai/provider"
	"pantry-recipes/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	maxErrorBody   = 512
)

// Client OpenAI 相容 chat completions 客戶端（OpenRouter 或其他閘道）
type Client struct {
	client *resty.Client
	model  string
}

// chatRequest 表示 API 請求
type chatRequest struct {
	Model          string             `json:"model"`
	Messages       []provider.Message `json:"messages"`
	MaxTokens      int                `json:"max_tokens,omitempty"`
	Temperature    float64            `json:"temperature"`
	ResponseFormat *responseFormat    `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatResponse OpenRouter 響應結構
type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message provider.Message `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// NewClient 創建新的 OpenRouter 客戶端
func NewClient(cfg provider.Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey))
	if cfg.Referer != "" {
		client.SetHeader("HTTP-Referer", cfg.Referer)
	}
	if cfg.AppName != "" {
		client.SetHeader("X-Title", cfg.AppName)
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{
		client: client,
		model:  cfg.Model,
	}
}

// Complete 發送 chat completions 請求並回傳第一個選項的內容
func (c *Client) Complete(ctx context.Context, req *provider.Request) (string, error) {
	body := chatRequest{
		Model:       c.model,
		Messages:    req.Messages(),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.Mode == provider.ModeJSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var result chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("AI service returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", c.model),
		)
		return "", fmt.Errorf("OpenRouter API returned error (status %d): %s", resp.StatusCode(), truncateBody(resp.String()))
	}

	if len(result.Choices) == 0 {
		common.LogWarn("Empty choices in AI service response", zap.String("model", c.model))
		return req.EmptyReply(), nil
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return req.EmptyReply(), nil
	}

	common.LogDebug("OpenRouter response",
		zap.String("model", c.model),
		zap.String("mode", string(req.Mode)),
		zap.Int("content_length", len(content)),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)
	return content, nil
}

func truncateBody(body string) string {
	if len(body) > maxErrorBody {
		return body[:maxErrorBody] + "..."
	}
	return body
}

// Name 提供者名稱
func (c *Client) Name() string {
	return "openrouter"
}

// GetModel 獲取模型名稱
func (c *Client) GetModel() string {
	return c.model
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
