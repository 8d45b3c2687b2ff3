package api

import (
	"fmt"
	"time"

	"pantry-recipes/internal/api/handlers/health"
	"pantry-recipes/internal/api/handlers/pantry"
	"pantry-recipes/internal/api/middleware"
	"pantry-recipes/internal/infrastructure/config"
	"pantry-recipes/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services 路由使用的服務
type Services struct {
	Suggestions pantry.Suggester
	// AI 與 Source 可為 nil，僅影響健康檢查內容
	AI     health.AIStatus
	Source health.Pinger
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc Services) (*gin.Engine, error) {
	if svc.Suggestions == nil {
		return nil, fmt.Errorf("suggestion service is required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", cfg.RequestTimeout),
		zap.Int64("max_body_size", cfg.MaxBodyBytes),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", middleware.UserIDHeader},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	if cfg.MaxBodyBytes > 0 {
		router.Use(middleware.BodySizeLimit(cfg.MaxBodyBytes))
	}
	if cfg.RequestTimeout > 0 {
		router.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, svc.AI, svc.Source)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		pantryHandler := pantry.NewHandler(svc.Suggestions)

		pantryGroup := api.Group("/pantry")
		{
			// 依食材推薦既有食譜並生成新食譜
			pantryGroup.POST("/suggestions", pantryHandler.HandleSuggestions)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		status, body := common.ResolveError(common.ErrNotFound)
		c.JSON(status, body)
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("ai_status_available", svc.AI != nil),
		zap.Bool("source_ping_available", svc.Source != nil),
	)

	return router, nil
}
