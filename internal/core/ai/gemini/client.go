package gemini

import (
	"context"
	"fmt"
	"strings"

	"pantry-recipes/internal/core/ai/provider"
	"pantry-recipes/internal/pkg/common"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

// Client Google Gemini 客戶端
type Client struct {
	client *genai.Client
	model  string
}

// NewClient 創建新的 Gemini 客戶端
func NewClient(ctx context.Context, cfg provider.Config) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{client: client, model: model}, nil
}

// Complete 以 system instruction + user prompt 呼叫模型
func (c *Client) Complete(ctx context.Context, req *provider.Request) (string, error) {
	model := c.client.GenerativeModel(c.model)
	if req.SystemPrompt != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(req.SystemPrompt))
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	model.SetTemperature(float32(req.Temperature))
	if req.Mode == provider.ModeJSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.UserPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	content := strings.TrimSpace(responseText(resp))
	if content == "" {
		common.LogWarn("Empty content in Gemini response", zap.String("model", c.model))
		return req.EmptyReply(), nil
	}
	return content, nil
}

// responseText 串接第一個候選結果中的所有文字片段
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

// Name 提供者名稱
func (c *Client) Name() string {
	return "gemini"
}

// GetModel 獲取模型名稱
func (c *Client) GetModel() string {
	return c.model
}

// Close 關閉客戶端
func (c *Client) Close() error {
	return c.client.Close()
}
