package recipe

import "time"

const (
	// VisibilityPrivate 生成食譜一律為私人
	VisibilityPrivate = "private"
	// VisibilityPublic 公開食譜
	VisibilityPublic = "public"
	// StatusToTry 生成食譜的預設狀態標籤
	StatusToTry = "to_try"

	maxListedIngredients = 6
)

// Filters 使用者篩選條件，欄位名稱與前端送出的 JSON 一致
type Filters struct {
	MaxPrepTime    float64 `json:"maxPrepTime,omitempty"`
	MaxCalories    float64 `json:"maxCalories,omitempty"`
	MinProtein     float64 `json:"minProtein,omitempty"`
	Cuisine        string  `json:"cuisine,omitempty"`
	IncludePublic  bool    `json:"includePublic,omitempty"`
	Limit          int     `json:"limit,omitempty"`
	GeneratedCount int     `json:"generatedCount,omitempty"`
	Servings       int     `json:"servings,omitempty"`
}

// CandidateRecipe 既有食譜，由資料來源提供，核心流程只讀
type CandidateRecipe struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Cuisine         string    `json:"cuisine"`
	PrepTimeMin     int       `json:"prep_time_min"`
	Calories        float64   `json:"calories"`
	ProteinG        float64   `json:"protein_g"`
	IngredientNames []string  `json:"ingredient_names"`
	OwnerID         string    `json:"owner_id,omitempty"`
	Visibility      string    `json:"visibility,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

// Suggestion 既有食譜的推薦結果
type Suggestion struct {
	RecipeID           string   `json:"recipe_id"`
	RecipeName         string   `json:"recipe_name"`
	MatchScore         int      `json:"match_score"`
	MatchedIngredients []string `json:"matched_ingredients"`
	MissingIngredients []string `json:"missing_ingredients"`
	PrepTimeMin        int      `json:"prep_time_min"`
	Calories           float64  `json:"calories"`
	ProteinG           float64  `json:"protein_g"`
	WhyThisMatch       string   `json:"why_this_match"`
}

// Macros 熱量與三大營養素
type Macros struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// Ingredient 生成食譜中的食材，營養數值為整份食材的總量
type Ingredient struct {
	ItemName  string  `json:"item_name"`
	Grams     float64 `json:"grams"`
	Calories  float64 `json:"calories"`
	ProteinG  float64 `json:"protein_g"`
	CarbsG    float64 `json:"carbs_g"`
	FatG      float64 `json:"fat_g"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Notes     string  `json:"notes,omitempty"`
	SortOrder int     `json:"sort_order"`
}

func (i Ingredient) macros() Macros {
	return Macros{Calories: i.Calories, ProteinG: i.ProteinG, CarbsG: i.CarbsG, FatG: i.FatG}
}

// GeneratedRecipe AI 或本地生成的新食譜，營養數值為每份
type GeneratedRecipe struct {
	Name         string       `json:"name"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions string       `json:"instructions"`
	PrepTimeMin  int          `json:"prep_time_min"`
	CookTimeMin  int          `json:"cook_time_min"`
	Servings     int          `json:"servings"`
	Calories     float64      `json:"calories"`
	ProteinG     float64      `json:"protein_g"`
	CarbsG       float64      `json:"carbs_g"`
	FatG         float64      `json:"fat_g"`
	Visibility   string       `json:"visibility"`
	StatusTag    string       `json:"status_tag"`
	AIReason     string       `json:"ai_reason"`
}

// SuggestResult 推薦流程的完整輸出
type SuggestResult struct {
	PantryItems      []string          `json:"pantry_items"`
	Suggestions      []Suggestion      `json:"suggestions"`
	GeneratedRecipes []GeneratedRecipe `json:"generated_recipes"`
}
