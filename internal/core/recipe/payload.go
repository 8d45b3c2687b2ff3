package recipe

import (
	"fmt"
	"strings"

	"pantry-recipes/internal/pkg/common"
)

// PayloadKind 模型輸出的分類結果
type PayloadKind int

const (
	PayloadUnparsable PayloadKind = iota
	PayloadRecipeList
	PayloadSingleRecipe
	PayloadFreeText
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadRecipeList:
		return "recipe_list"
	case PayloadSingleRecipe:
		return "single_recipe"
	case PayloadFreeText:
		return "free_text"
	default:
		return "unparsable"
	}
}

// Payload 分類後的模型輸出
type Payload struct {
	Kind  PayloadKind
	Items []any
	Text  string
}

// recipeListKeys 依序探測的食譜陣列欄位
var recipeListKeys = []string{"recipes", "generated_recipes", "ideas", "recipe_suggestions"}

// TryParseJSON 先嚴格解析，失敗時改解析第一個 ``` 區塊
func TryParseJSON(raw string) (any, bool) {
	var parsed any
	if err := common.ParseJSONLenient(raw, &parsed); err != nil {
		return nil, false
	}
	return parsed, true
}

// ExtractRecipeArray 從解析後的 JSON 取出食譜陣列，單一食譜物件包成一個元素
func ExtractRecipeArray(parsed any) ([]any, PayloadKind) {
	switch v := parsed.(type) {
	case []any:
		if len(v) > 0 {
			return v, PayloadRecipeList
		}
	case map[string]any:
		for _, key := range recipeListKeys {
			if items, ok := v[key].([]any); ok {
				return items, PayloadRecipeList
			}
		}
		if truthy(v["name"]) && truthy(v["ingredients"]) {
			return []any{v}, PayloadSingleRecipe
		}
		// {"recipe": {...}} 由 NormalizeGeneratedRecipe 展開
		if nested, ok := v["recipe"].(map[string]any); ok && truthy(nested["ingredients"]) {
			return []any{v}, PayloadSingleRecipe
		}
	}
	return nil, PayloadUnparsable
}

// ClassifyOutput 將模型原始輸出歸類為食譜陣列、單一食譜、純文字或無法解析
func ClassifyOutput(raw string) Payload {
	parsed, ok := TryParseJSON(raw)
	if !ok {
		if text := strings.TrimSpace(raw); text != "" {
			return Payload{Kind: PayloadFreeText, Text: text}
		}
		return Payload{Kind: PayloadUnparsable}
	}
	items, kind := ExtractRecipeArray(parsed)
	return Payload{Kind: kind, Items: items}
}

// Structured 是否為可直接正規化的結構化食譜
func (p Payload) Structured() bool {
	return p.Kind == PayloadRecipeList || p.Kind == PayloadSingleRecipe
}

// NormalizeRecipes 將結構化輸出正規化為食譜，最多 limit 筆
func (p Payload) NormalizeRecipes(limit int) []GeneratedRecipe {
	if !p.Structured() {
		return nil
	}
	recipes := make([]GeneratedRecipe, 0, len(p.Items))
	for index, item := range p.Items {
		if limit > 0 && len(recipes) >= limit {
			break
		}
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		recipe, ok := NormalizeGeneratedRecipe(raw, fmt.Sprintf("AI Pantry Recipe %d", index+1))
		if !ok {
			continue
		}
		recipes = append(recipes, recipe)
	}
	return recipes
}
