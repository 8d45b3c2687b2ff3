package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"pantry-recipes/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Timeout 為每個請求設定截止時間
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}
		common.LogError("Request timeout",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestid.Get(c)),
			zap.Duration("timeout", timeout),
		)
		// 處理程序已寫出回應時不再覆寫
		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ErrorResponse{
			Code:    common.ErrCodeRequestTimeout,
			Message: common.ErrGatewayTimeout.Message,
			Details: timeout.String(),
		})
	}
}
