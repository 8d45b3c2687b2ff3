package recipe

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// numberFrom 將模型輸出中的數值欄位轉為 float64，nil 或無法解析時回傳 false
func numberFrom(value any) (float64, bool) {
	var n float64
	switch v := value.(type) {
	case nil:
		return 0, false
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case bool:
		if v {
			n = 1
		}
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func toNonNegativeNumber(value any, fallback float64) float64 {
	n, ok := numberFrom(value)
	if !ok || n < 0 {
		return fallback
	}
	return n
}

func toPositiveNumber(value any, fallback float64) float64 {
	n, ok := numberFrom(value)
	if !ok || n <= 0 {
		return fallback
	}
	return n
}

func toPositiveInt(value any, fallback int) int {
	n, ok := numberFrom(value)
	if !ok {
		return fallback
	}
	rounded := int(math.Floor(n + 0.5))
	if rounded <= 0 {
		return fallback
	}
	return rounded
}

// stringOf 取出純量的字串形式，物件與陣列回傳空字串
func stringOf(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// truthy 判斷欄位是否有實際內容
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case float64:
		return v != 0 && !math.IsNaN(v)
	case int:
		return v != 0
	default:
		return true
	}
}

// firstPresent 回傳第一個非 nil 的欄位值
func firstPresent(m map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

// firstTruthy 回傳第一個有內容的欄位值
func firstTruthy(m map[string]any, keys ...string) any {
	for _, key := range keys {
		if v := m[key]; truthy(v) {
			return v
		}
	}
	return nil
}
