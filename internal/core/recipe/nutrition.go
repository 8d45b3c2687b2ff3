package recipe

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

type gramRule struct {
	pattern *regexp.Regexp
	grams   float64
}

type macroRule struct {
	pattern *regexp.Regexp
	per100  Macros
}

const fallbackDefaultGrams = 60

// 預設份量，依序比對，第一個符合者生效
var defaultGramRules = []gramRule{
	{regexp.MustCompile(`salt|pepper|spice|oregano|paprika|cumin|garlic powder|chili flakes`), 3},
	{regexp.MustCompile(`oil|butter|ghee`), 12},
	{regexp.MustCompile(`garlic|ginger`), 10},
	{regexp.MustCompile(`egg`), 50},
	{regexp.MustCompile(`onion|tomato|pepper|carrot|zucchini|broccoli|mushroom|spinach`), 80},
	{regexp.MustCompile(`rice|pasta|oats|quinoa|flour`), 75},
	{regexp.MustCompile(`chicken|beef|turkey|fish|salmon|shrimp|tofu`), 140},
	{regexp.MustCompile(`milk|yogurt|broth|stock|sauce`), 120},
}

var defaultPer100 = Macros{Calories: 80, ProteinG: 4, CarbsG: 8, FatG: 3}

// 每 100g 營養估算表，依序比對
var per100Rules = []macroRule{
	{regexp.MustCompile(`chicken|turkey`), Macros{165, 31, 0, 3.6}},
	{regexp.MustCompile(`beef`), Macros{250, 26, 0, 15}},
	{regexp.MustCompile(`salmon|fish|tuna|shrimp`), Macros{180, 24, 0, 8}},
	{regexp.MustCompile(`egg`), Macros{155, 13, 1.1, 11}},
	{regexp.MustCompile(`rice`), Macros{130, 2.7, 28, 0.3}},
	{regexp.MustCompile(`pasta`), Macros{157, 5.8, 31, 0.9}},
	{regexp.MustCompile(`oats`), Macros{389, 17, 66, 7}},
	{regexp.MustCompile(`potato`), Macros{77, 2, 17, 0.1}},
	{regexp.MustCompile(`onion|tomato|pepper|carrot|broccoli|spinach|mushroom`), Macros{35, 1.8, 7, 0.3}},
	{regexp.MustCompile(`beans|chickpea|lentil`), Macros{140, 9, 24, 1.5}},
	{regexp.MustCompile(`tofu`), Macros{76, 8, 1.9, 4.8}},
	{regexp.MustCompile(`milk`), Macros{60, 3.2, 5, 3.2}},
	{regexp.MustCompile(`yogurt`), Macros{59, 10, 3.6, 0.4}},
	{regexp.MustCompile(`oil|butter`), Macros{884, 0, 0, 100}},
}

// 每單位換算成公克（液體以毫升計）
var unitToGrams = map[string]float64{
	"kg":    1000,
	"g":     1,
	"gram":  1,
	"grams": 1,
	"ml":    1,
	"l":     1000,
	"cup":   240,
	"cups":  240,
	"tbsp":  15,
	"tsp":   5,
	"oz":    28.35,
	"lb":    453.6,
}

var amountPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(kg|g|gram|grams|ml|l|cup|cups|tbsp|tsp|oz|lb)\b`)

// EstimateDefaultGrams 依食材類別估計一份的公克數
func EstimateDefaultGrams(name string) float64 {
	n := NormalizeText(name)
	if n == "" {
		return fallbackDefaultGrams
	}
	for _, rule := range defaultGramRules {
		if rule.pattern.MatchString(n) {
			return rule.grams
		}
	}
	return fallbackDefaultGrams
}

// ParseAmountToGrams 從文字中取出數量與單位並換算為公克，無法解析時回傳 false
func ParseAmountToGrams(text string) (float64, bool) {
	match := amountPattern.FindStringSubmatch(strings.ToLower(text))
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil || value <= 0 || math.IsInf(value, 0) {
		return 0, false
	}
	factor, ok := unitToGrams[match[2]]
	if !ok {
		return 0, false
	}
	return value * factor, true
}

// EstimatePer100FromName 依食材名稱估計每 100g 的營養素
func EstimatePer100FromName(name string) Macros {
	n := NormalizeText(name)
	if n == "" {
		return defaultPer100
	}
	for _, rule := range per100Rules {
		if rule.pattern.MatchString(n) {
			return rule.per100
		}
	}
	return defaultPer100
}

// FillIngredientMacrosIfMissing 四項營養素皆為 0 時以名稱與公克數估算，已提供的數值不變
func FillIngredientMacrosIfMissing(ingredient Ingredient) Ingredient {
	if ingredient.Calories > 0 || ingredient.ProteinG > 0 || ingredient.CarbsG > 0 || ingredient.FatG > 0 {
		return ingredient
	}

	grams := ingredient.Grams
	if grams <= 0 {
		grams = EstimateDefaultGrams(ingredient.ItemName)
	}
	base := EstimatePer100FromName(ingredient.ItemName)
	factor := grams / 100

	ingredient.Grams = grams
	ingredient.Quantity = grams
	ingredient.Calories = round2(base.Calories * factor)
	ingredient.ProteinG = round2(base.ProteinG * factor)
	ingredient.CarbsG = round2(base.CarbsG * factor)
	ingredient.FatG = round2(base.FatG * factor)
	return ingredient
}

func round2(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return math.Floor(value*100+0.5) / 100
}
