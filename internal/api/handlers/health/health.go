package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"pantry-recipes/internal/core/ai/queue"
	"pantry-recipes/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const readinessTimeout = 3 * time.Second

// AIStatus AI 服務對外提供的狀態
type AIStatus interface {
	ProviderName() string
	Model() string
	CacheStats() map[string]interface{}
	QueueStatus() *queue.Status
}

// Pinger 可檢查連線的依賴
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	AI        *AIInfo                `json:"ai,omitempty"`
}

// AIInfo 模型提供者、緩存與呼叫名額狀態
type AIInfo struct {
	Provider string                 `json:"provider"`
	Model    string                 `json:"model,omitempty"`
	Cache    map[string]interface{} `json:"cache,omitempty"`
	Queue    *queue.Status          `json:"queue,omitempty"`
}

// Handler 健康檢查處理程序
type Handler struct {
	version string
	ai      AIStatus
	source  Pinger
}

// NewHandler 創建健康檢查處理程序，ai 與 source 可為 nil
func NewHandler(version string, ai AIStatus, source Pinger) *Handler {
	return &Handler{
		version: version,
		ai:      ai,
		source:  source,
	}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	if h.ai != nil {
		response.AI = &AIInfo{
			Provider: h.ai.ProviderName(),
			Model:    h.ai.Model(),
			Cache:    h.ai.CacheStats(),
			Queue:    h.ai.QueueStatus(),
		}
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器，確認候選食譜來源可連線
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.source != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := h.source.Ping(ctx); err != nil {
			common.LogWarn("候選食譜來源無法連線", zap.Error(err))
			status, body := common.ResolveError(common.ErrServiceUnavailable)
			c.JSON(status, body)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
