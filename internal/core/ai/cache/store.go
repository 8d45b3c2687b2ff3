package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Store 模型輸出緩存，未命中時 Get 回傳 common.ErrCacheMiss
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	GetStats() map[string]interface{}
	Close() error
}

// Key 以模式、token 上限與兩段提示計算緩存鍵
func Key(mode string, maxTokens int, systemPrompt, userPrompt string) string {
	h := sha256.New()
	for _, part := range []string{mode, strconv.Itoa(maxTokens), systemPrompt, userPrompt} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return mode + ":" + hex.EncodeToString(h.Sum(nil))
}
