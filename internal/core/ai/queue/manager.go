package queue

import (
	"context"
	"errors"
	"sync/atomic"

	"pantry-recipes/internal/infrastructure/config"
	"pantry-recipes/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrClosed 管理器已關閉
var ErrClosed = errors.New("queue manager is closed")

// Status 隊列狀態
type Status struct {
	InFlight       int   `json:"in_flight"`
	Waiting        int   `json:"waiting"`
	ProcessedCount int64 `json:"processed_count"`
	RejectedCount  int64 `json:"rejected_count"`
	MaxConcurrent  int   `json:"max_concurrent"`
	MaxQueueSize   int   `json:"max_queue_size"`
}

// Manager 限制同時進行的模型呼叫數量，等待者超過上限時直接拒絕
type Manager struct {
	slots        chan struct{}
	done         chan struct{}
	maxQueueSize int
	waiting      atomic.Int64
	processed    atomic.Int64
	rejected     atomic.Int64
}

// NewManager 創建新的隊列管理器
func NewManager(cfg config.AIConfig) *Manager {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Manager{
		slots:        make(chan struct{}, maxConcurrent),
		done:         make(chan struct{}),
		maxQueueSize: cfg.MaxQueueSize,
	}
}

// Acquire 取得一個呼叫名額，回傳的 release 必須被呼叫一次
func (m *Manager) Acquire(ctx context.Context) (func(), error) {
	select {
	case <-m.done:
		return nil, ErrClosed
	default:
	}

	select {
	case m.slots <- struct{}{}:
		return m.releaseFunc(), nil
	default:
	}

	if waiting := m.waiting.Add(1); m.maxQueueSize > 0 && int(waiting) > m.maxQueueSize {
		m.waiting.Add(-1)
		m.rejected.Add(1)
		common.LogWarn("AI 呼叫隊列已滿",
			zap.Int64("waiting", waiting-1),
			zap.Int("max_queue_size", m.maxQueueSize),
		)
		return nil, common.ErrTooManyRequests
	}
	defer m.waiting.Add(-1)

	select {
	case m.slots <- struct{}{}:
		return m.releaseFunc(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.done:
		return nil, ErrClosed
	}
}

func (m *Manager) releaseFunc() func() {
	var released atomic.Bool
	return func() {
		if released.CompareAndSwap(false, true) {
			<-m.slots
			m.processed.Add(1)
		}
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		InFlight:       len(m.slots),
		Waiting:        int(m.waiting.Load()),
		ProcessedCount: m.processed.Load(),
		RejectedCount:  m.rejected.Load(),
		MaxConcurrent:  cap(m.slots),
		MaxQueueSize:   m.maxQueueSize,
	}
}

// Close 關閉隊列管理器，等待中的呼叫會收到 ErrClosed
func (m *Manager) Close() {
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}
