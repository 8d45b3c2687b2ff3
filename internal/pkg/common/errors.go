package common

import (
	"context"
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"error"`             // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ValidationError 表示驗證錯誤，訊息可直接顯示給使用者
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// UpstreamDataError 表示候選食譜資料來源讀取失敗
type UpstreamDataError struct {
	Op  string
	Err error
}

func (e *UpstreamDataError) Error() string {
	return "failed to load " + e.Op + ": " + e.Err.Error()
}

func (e *UpstreamDataError) Unwrap() error {
	return e.Err
}

// NewUpstreamDataError 包裝資料來源錯誤
func NewUpstreamDataError(op string, err error) error {
	return &UpstreamDataError{Op: op, Err: err}
}

// IsUpstreamDataError 檢查是否為資料來源錯誤
func IsUpstreamDataError(err error) bool {
	var target *UpstreamDataError
	return errors.As(err, &target)
}

// 預定義錯誤代碼
const (
	ErrCodeInvalidRequest     = "INVALID_REQUEST"     // 400
	ErrCodeValidation         = "VALIDATION_ERROR"    // 400
	ErrCodeNotFound           = "NOT_FOUND"           // 404
	ErrCodeRequestTimeout     = "REQUEST_TIMEOUT"     // 504，請求超過伺服器設定的處理時間
	ErrCodeRequestTooLarge    = "REQUEST_TOO_LARGE"   // 413
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"   // 429
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeUpstreamData       = "UPSTREAM_DATA_ERROR" // 502
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// 預定義錯誤
var (
	ErrInvalidRequest     = NewError(ErrCodeInvalidRequest, "Invalid request format", http.StatusBadRequest, nil)
	ErrMissingUser        = NewError(ErrCodeInvalidRequest, "Missing X-User-ID header", http.StatusBadRequest, nil)
	ErrTooManyRequests    = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "Request timeout", http.StatusGatewayTimeout, nil)
	ErrNotFound           = NewError(ErrCodeNotFound, "Not found", http.StatusNotFound, nil)

	ErrCacheMiss = NewError("CACHE_MISS", "快取未命中", http.StatusNotFound, nil)
)

// ResolveError 將錯誤轉為 HTTP 狀態碼與回應內容
func ResolveError(err error) (int, ErrorResponse) {
	var (
		validation *ValidationError
		upstream   *UpstreamDataError
		custom     *CustomError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, ErrorResponse{Code: ErrCodeValidation, Message: validation.Error()}
	case errors.As(err, &upstream):
		return http.StatusBadGateway, ErrorResponse{Code: ErrCodeUpstreamData, Message: "Failed to load recipes."}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorResponse{Code: ErrCodeGatewayTimeout, Message: ErrGatewayTimeout.Message}
	case errors.As(err, &custom):
		return custom.Status, ErrorResponse{Code: custom.Code, Message: custom.Message}
	default:
		return ErrInternalError.Status, ErrorResponse{Code: ErrInternalError.Code, Message: "Failed to suggest recipes."}
	}
}
