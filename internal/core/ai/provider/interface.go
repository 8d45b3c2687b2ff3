package provider

import (
	"context"
	"time"
)

// Mode 補全輸出模式
type Mode string

const (
	// ModeJSON 要求模型輸出 JSON 物件
	ModeJSON Mode = "json"
	// ModeText 純文字輸出
	ModeText Mode = "text"
)

// Message 表示與 AI 模型的對話消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request 表示發送到 AI 提供者的請求
type Request struct {
	Mode         Mode
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// Messages 轉為 system + user 對話
func (r *Request) Messages() []Message {
	messages := make([]Message, 0, 2)
	if r.SystemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: r.SystemPrompt})
	}
	return append(messages, Message{Role: "user", Content: r.UserPrompt})
}

// EmptyReply 模型沒有回傳內容時的替代值
func (r *Request) EmptyReply() string {
	if r.Mode == ModeJSON {
		return "{}"
	}
	return ""
}

// Provider 定義 AI 提供者介面
type Provider interface {
	// Complete 回傳模型的原始文字輸出
	Complete(ctx context.Context, req *Request) (string, error)

	// Name 提供者名稱
	Name() string

	// GetModel 獲取當前使用的模型名稱
	GetModel() string

	// Close 關閉提供者連接
	Close() error
}

// Config 定義 AI 提供者配置
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	BaseURL string
	AppName string
	Referer string
}

// Disabled 未設定任何提供者時使用，永遠回傳空輸出
type Disabled struct{}

// Complete 回傳空輸出
func (Disabled) Complete(ctx context.Context, req *Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", nil
}

// Name 提供者名稱
func (Disabled) Name() string { return "none" }

// GetModel 沒有模型
func (Disabled) GetModel() string { return "" }

// Close 無需釋放資源
func (Disabled) Close() error { return nil }
