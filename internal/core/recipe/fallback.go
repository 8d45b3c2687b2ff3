package recipe

const (
	fallbackRecipeName   = "Pantry Stir-Fry Bowl"
	fallbackAIReason     = "Generated from your pantry ingredients using local fallback."
	fallbackMaxPantry    = 8
	fallbackInstructions = "1. Prep and chop all ingredients into bite-size pieces.\n" +
		"2. Heat a pan with oil on medium heat and cook aromatics first.\n" +
		"3. Add the remaining ingredients and cook until tender and cooked through.\n" +
		"4. Season to taste, divide into servings, and serve warm."
)

// 沒有任何 pantry 食材時使用的基本組合
var placeholderIngredients = []Ingredient{
	{ItemName: "onion", Grams: 80, Quantity: 80, Unit: "g", SortOrder: 0},
	{ItemName: "olive oil", Grams: 12, Quantity: 12, Unit: "g", SortOrder: 1},
	{ItemName: "salt", Grams: 3, Quantity: 3, Unit: "g", SortOrder: 2},
}

// BuildGuaranteedFallbackRecipe 不經網路、以最多 8 個 pantry 食材組出一道食譜，永遠成功
func BuildGuaranteedFallbackRecipe(pantry []string, filters Filters) GeneratedRecipe {
	ingredients := make([]Ingredient, 0, fallbackMaxPantry)
	for i, item := range pantry {
		if i >= fallbackMaxPantry {
			break
		}
		ingredient, ok := NormalizeIngredientItem(item)
		if !ok {
			continue
		}
		ingredient.SortOrder = len(ingredients)
		ingredients = append(ingredients, ingredient)
	}
	if len(ingredients) == 0 {
		ingredients = append(ingredients, placeholderIngredients...)
	}

	servings := filters.Servings
	if servings <= 0 {
		servings = defaultServings
	}

	return FinalizeRecipeMacros(GeneratedRecipe{
		Name:         GenerateRecipeNameFromIngredients(ingredients, fallbackRecipeName),
		Ingredients:  ingredients,
		Instructions: fallbackInstructions,
		PrepTimeMin:  10,
		CookTimeMin:  18,
		Servings:     servings,
		Visibility:   VisibilityPrivate,
		StatusTag:    StatusToTry,
		AIReason:     fallbackAIReason,
	})
}
