package pantry

import (
	"context"
	"net/http"
	"strings"
	"time"

	"pantry-recipes/internal/api/middleware"
	"pantry-recipes/internal/core/recipe"
	"pantry-recipes/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Suggester 依食材推薦與生成食譜
type Suggester interface {
	SuggestPantryRecipes(ctx context.Context, ownerID, pantryText string, filters recipe.Filters) (*recipe.SuggestResult, error)
}

// SuggestRequest 食材推薦請求
type SuggestRequest struct {
	PantryText string         `json:"pantryText"`
	Filters    recipe.Filters `json:"filters"`
}

// Handler 食材推薦處理程序
type Handler struct {
	suggester Suggester
}

// NewHandler 創建食材推薦處理程序
func NewHandler(suggester Suggester) *Handler {
	return &Handler{suggester: suggester}
}

// HandleSuggestions 依使用者輸入的食材推薦既有食譜並生成新食譜
func (h *Handler) HandleSuggestions(c *gin.Context) {
	requestID := requestid.Get(c)
	if requestID == "" {
		requestID = common.GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}

	ownerID := strings.TrimSpace(c.GetHeader(middleware.UserIDHeader))
	if ownerID == "" {
		h.writeError(c, requestID, common.ErrMissingUser)
		return
	}

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		h.writeError(c, requestID, common.ErrInvalidRequest)
		return
	}

	common.LogInfo("開始處理食材推薦請求",
		zap.String("request_id", requestID),
		zap.String("user_id", ownerID),
		zap.Int("pantry_text_length", len(req.PantryText)),
		zap.Bool("include_public", req.Filters.IncludePublic),
	)

	start := time.Now()
	result, err := h.suggester.SuggestPantryRecipes(c.Request.Context(), ownerID, req.PantryText, req.Filters)
	if err != nil {
		h.writeError(c, requestID, err)
		return
	}

	common.LogInfo("食材推薦完成",
		zap.String("request_id", requestID),
		zap.Int("pantry_items", len(result.PantryItems)),
		zap.Int("suggestions", len(result.Suggestions)),
		zap.Int("generated_recipes", len(result.GeneratedRecipes)),
		zap.Duration("duration", time.Since(start)),
	)
	c.JSON(http.StatusOK, result)
}

func (h *Handler) writeError(c *gin.Context, requestID string, err error) {
	status, body := common.ResolveError(err)
	if status >= http.StatusInternalServerError {
		common.LogError("食材推薦失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.Int("status", status),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}
