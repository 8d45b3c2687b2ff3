package recipe

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultRecipeName       = "Generated Recipe"
	defaultAIReason         = "Generated from your available ingredients."
	defaultGeneratedSteps   = "1. Prep the ingredients.\n2. Cook using your preferred method until done.\n3. Season to taste and serve."
	defaultServings         = 2
	defaultGeneratedPrepMin = 10
	defaultGeneratedCookMin = 15
)

var (
	listMarkerPattern  = regexp.MustCompile(`^[-*•\d\)./\s]+`)
	amountStripPattern = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:kg|g|gram|grams|ml|l|cup|cups|tbsp|tsp|oz|lb)\b`)
	stepPrefixPattern  = regexp.MustCompile(`(?i)^(?:step\s*)?\d+[\).:](?:\s+|$)`)

	weakNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^ai pantry recipe(?:\s*\d+)?$`),
		regexp.MustCompile(`^ai recipe(?:\s*\d+)?$`),
	}
	placeholderNames = map[string]bool{
		"recipe":       true,
		"ingredients":  true,
		"instructions": true,
		"steps":        true,
		"method":       true,
	}

	proteinPattern    = regexp.MustCompile(`chicken|beef|turkey|salmon|fish|shrimp|tofu|egg|lentil|chickpea|beans`)
	starchPattern     = regexp.MustCompile(`rice|pasta|quinoa|potato|oats|noodle|tortilla|bread`)
	vegetablePattern  = regexp.MustCompile(`onion|tomato|pepper|broccoli|spinach|mushroom|zucchini`)
	stylePattern      = regexp.MustCompile(`garlic|ginger|yogurt|curry|lemon|chili|herb`)
	massEquivalentSet = map[string]bool{"g": true, "gram": true, "grams": true, "ml": true}
)

// nameFromLine 去除數量、單位與清單符號，留下食材名稱
func nameFromLine(line string) string {
	name := amountStripPattern.ReplaceAllString(line, " ")
	name = listMarkerPattern.ReplaceAllString(strings.TrimSpace(name), "")
	name = whitespacePattern.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

func titleCase(value string) string {
	return cases.Title(language.English, cases.NoLower).String(strings.Join(strings.Fields(value), " "))
}

// NormalizeIngredientItem 將字串或物件形式的食材轉為 Ingredient，名稱為空時回傳 false
func NormalizeIngredientItem(item any) (Ingredient, bool) {
	switch v := item.(type) {
	case string:
		return ingredientFromText(v)
	case map[string]any:
		return ingredientFromObject(v)
	default:
		return Ingredient{}, false
	}
}

func ingredientFromText(text string) (Ingredient, bool) {
	label := strings.TrimSpace(text)
	if label == "" {
		return Ingredient{}, false
	}
	name := nameFromLine(label)
	if name == "" {
		name = label
	}
	grams, ok := ParseAmountToGrams(label)
	if !ok {
		grams = EstimateDefaultGrams(name)
	}
	return Ingredient{ItemName: name, Grams: grams, Quantity: grams, Unit: "g"}, true
}

func ingredientFromObject(m map[string]any) (Ingredient, bool) {
	name := strings.TrimSpace(stringOf(firstTruthy(m, "item_name", "name", "ingredient", "label")))
	if name == "" {
		return Ingredient{}, false
	}

	fallback, ok := ParseAmountToGrams(name)
	if !ok {
		fallback = EstimateDefaultGrams(name)
	}

	unit := strings.TrimSpace(stringOf(firstTruthy(m, "unit")))
	if unit == "" {
		unit = "g"
	}

	var grams float64
	switch {
	case m["grams"] != nil:
		grams = toPositiveNumber(m["grams"], fallback)
	case m["quantity"] != nil:
		grams, unit = gramsFromQuantity(m["quantity"], unit, name, fallback)
	default:
		grams = fallback
	}

	ingredient := Ingredient{
		ItemName: name,
		Grams:    grams,
		Calories: toNonNegativeNumber(firstPresent(m, "calories", "calories_per_item"), 0),
		ProteinG: toNonNegativeNumber(firstPresent(m, "protein_g", "protein"), 0),
		CarbsG:   toNonNegativeNumber(firstPresent(m, "carbs_g", "carbs"), 0),
		FatG:     toNonNegativeNumber(firstPresent(m, "fat_g", "fat"), 0),
		Quantity: grams,
		Unit:     unit,
	}
	if notes := m["notes"]; truthy(notes) {
		ingredient.Notes = strings.TrimSpace(stringOf(notes))
	}
	return ingredient, true
}

// gramsFromQuantity 依單位將 quantity 換算成公克；計數單位以每件預設份量估算，結果不為正數時使用 fallback
func gramsFromQuantity(quantity any, unit, name string, fallback float64) (float64, string) {
	qty, ok := numberFrom(quantity)
	if !ok || qty <= 0 {
		return fallback, unit
	}
	lowered := strings.ToLower(unit)
	if massEquivalentSet[lowered] {
		return qty, unit
	}

	var grams float64
	if factor, ok := unitToGrams[lowered]; ok {
		grams = qty * factor
	} else {
		grams = round2(qty * EstimateDefaultGrams(name))
	}
	if grams <= 0 || math.IsInf(grams, 0) || math.IsNaN(grams) {
		return fallback, "g"
	}
	return grams, "g"
}

// IsWeakRecipeName 名稱為空、為通用佔位字或過短時需要重新命名
func IsWeakRecipeName(name string) bool {
	n := NormalizeText(name)
	if n == "" || placeholderNames[n] {
		return true
	}
	for _, pattern := range weakNamePatterns {
		if pattern.MatchString(n) {
			return true
		}
	}
	return len(n) < 4
}

// chooseByPattern 回傳第一個符合 pattern 且不在 exclude 中的名稱
func chooseByPattern(names []string, pattern *regexp.Regexp, exclude ...string) string {
	for _, name := range names {
		if slices.Contains(exclude, name) {
			continue
		}
		if pattern.MatchString(NormalizeText(name)) {
			return name
		}
	}
	return ""
}

// GenerateRecipeNameFromIngredients 以蛋白質、主食與風味食材組合出 "{Style} {Protein} {Base} Bowl"
func GenerateRecipeNameFromIngredients(ingredients []Ingredient, fallbackName string) string {
	if fallbackName == "" {
		fallbackName = defaultRecipeName
	}
	names := make([]string, 0, len(ingredients))
	for _, ingredient := range ingredients {
		if ingredient.ItemName != "" {
			names = append(names, ingredient.ItemName)
		}
	}
	if len(names) == 0 {
		return fallbackName
	}

	protein := chooseByPattern(names, proteinPattern)
	if protein == "" {
		protein = names[0]
	}
	base := chooseByPattern(names, starchPattern, protein)
	if base == "" {
		base = chooseByPattern(names, vegetablePattern, protein)
	}
	if base == "" {
		for _, name := range names[1:] {
			if name != protein {
				base = name
				break
			}
		}
	}
	if base == "" {
		base = "Skillet"
	}

	parts := []string{titleCase(protein), titleCase(base)}
	if style := chooseByPattern(names, stylePattern, protein, base); style != "" {
		parts = append([]string{titleCase(style)}, parts...)
	}

	title := strings.Join(strings.Fields(strings.Join(parts, " ")+" Bowl"), " ")
	if len(title) < 5 {
		return fallbackName
	}
	return title
}

// SplitInstructions 步驟陣列重新編號並以換行連接，字串則去除前後空白
func SplitInstructions(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case []any:
		steps := make([]string, 0, len(v))
		for _, step := range v {
			text := stepPrefixPattern.ReplaceAllString(strings.TrimSpace(stepText(step)), "")
			if text == "" {
				continue
			}
			steps = append(steps, fmt.Sprintf("%d. %s", len(steps)+1, text))
		}
		return strings.Join(steps, "\n")
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return SplitInstructions(items)
	default:
		return strings.TrimSpace(stringOf(v))
	}
}

func stepText(step any) string {
	if m, ok := step.(map[string]any); ok {
		return stringOf(firstTruthy(m, "text", "step", "instruction", "description"))
	}
	return stringOf(step)
}

// NormalizeGeneratedRecipe 將模型輸出的單一食譜物件修復成完整的 GeneratedRecipe，沒有有效食材時回傳 false
func NormalizeGeneratedRecipe(raw map[string]any, fallbackName string) (GeneratedRecipe, bool) {
	if raw == nil {
		return GeneratedRecipe{}, false
	}
	candidate := raw
	if nested, ok := raw["recipe"].(map[string]any); ok {
		candidate = nested
	}

	rawIngredients, ok := candidate["ingredients"].([]any)
	if !ok {
		rawIngredients, _ = candidate["ingredient_list"].([]any)
	}
	ingredients := make([]Ingredient, 0, len(rawIngredients))
	for _, item := range rawIngredients {
		ingredient, ok := NormalizeIngredientItem(item)
		if !ok {
			continue
		}
		ingredient.SortOrder = len(ingredients)
		ingredients = append(ingredients, ingredient)
	}
	if len(ingredients) == 0 {
		return GeneratedRecipe{}, false
	}

	instructions := SplitInstructions(firstTruthy(candidate, "instructions", "steps", "method"))
	if instructions == "" {
		instructions = defaultGeneratedSteps
	}

	name := strings.TrimSpace(stringOf(firstTruthy(candidate, "name", "title")))
	if IsWeakRecipeName(name) {
		name = GenerateRecipeNameFromIngredients(ingredients, fallbackName)
	}

	reason := strings.TrimSpace(stringOf(firstTruthy(candidate, "ai_reason")))
	if reason == "" {
		reason = defaultAIReason
	}

	recipe := GeneratedRecipe{
		Name:         name,
		Ingredients:  ingredients,
		Instructions: instructions,
		PrepTimeMin:  toPositiveInt(firstPresent(candidate, "prep_time_min", "prep_minutes"), defaultGeneratedPrepMin),
		CookTimeMin:  toPositiveInt(firstPresent(candidate, "cook_time_min", "cook_minutes"), defaultGeneratedCookMin),
		Servings:     toPositiveInt(candidate["servings"], defaultServings),
		Calories:     toNonNegativeNumber(candidate["calories"], 0),
		ProteinG:     toNonNegativeNumber(firstPresent(candidate, "protein_g", "protein"), 0),
		CarbsG:       toNonNegativeNumber(firstPresent(candidate, "carbs_g", "carbs"), 0),
		FatG:         toNonNegativeNumber(firstPresent(candidate, "fat_g", "fat"), 0),
		Visibility:   VisibilityPrivate,
		StatusTag:    StatusToTry,
		AIReason:     reason,
	}
	return FinalizeRecipeMacros(recipe), true
}

// FinalizeRecipeMacros 補齊食材營養素、加總後除以份數並四捨五入至小數兩位
func FinalizeRecipeMacros(recipe GeneratedRecipe) GeneratedRecipe {
	servings := recipe.Servings
	if servings <= 0 {
		servings = defaultServings
	}

	enriched := make([]Ingredient, len(recipe.Ingredients))
	var totals Macros
	for i, ingredient := range recipe.Ingredients {
		enriched[i] = FillIngredientMacrosIfMissing(ingredient)
		m := enriched[i].macros()
		totals.Calories += m.Calories
		totals.ProteinG += m.ProteinG
		totals.CarbsG += m.CarbsG
		totals.FatG += m.FatG
	}

	recipe.Servings = servings
	recipe.Ingredients = enriched
	recipe.Calories = round2(totals.Calories / float64(servings))
	recipe.ProteinG = round2(totals.ProteinG / float64(servings))
	recipe.CarbsG = round2(totals.CarbsG / float64(servings))
	recipe.FatG = round2(totals.FatG / float64(servings))
	return recipe
}
