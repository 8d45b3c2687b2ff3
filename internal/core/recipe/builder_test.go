package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeIngredientItemText(t *testing.T) {
	tests := []struct {
		in    string
		name  string
		grams float64
	}{
		{"2 cups rice", "rice", 480},
		{"- 200g chicken breast", "chicken breast", 200},
		{"3) eggs", "eggs", 50},
		{"salt", "salt", 3},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeIngredientItem(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.name, got.ItemName)
			assert.Equal(t, tt.grams, got.Grams)
			assert.Equal(t, "g", got.Unit)
		})
	}

	_, ok := NormalizeIngredientItem("   ")
	assert.False(t, ok)
	_, ok = NormalizeIngredientItem(42)
	assert.False(t, ok)
}

func TestNormalizeIngredientItemObject(t *testing.T) {
	got, ok := NormalizeIngredientItem(map[string]any{"item_name": "rice", "quantity": 2.0, "unit": "cups"})
	require.True(t, ok)
	assert.Equal(t, 480.0, got.Grams)
	assert.Equal(t, "g", got.Unit)

	got, ok = NormalizeIngredientItem(map[string]any{"name": "eggs", "quantity": 3.0, "unit": "pcs"})
	require.True(t, ok)
	assert.Equal(t, 150.0, got.Grams)
	assert.Equal(t, "g", got.Unit)

	got, ok = NormalizeIngredientItem(map[string]any{"item_name": "chicken", "grams": -5.0, "protein": "12", "notes": "diced"})
	require.True(t, ok)
	assert.Equal(t, 140.0, got.Grams)
	assert.Equal(t, 12.0, got.ProteinG)
	assert.Equal(t, "diced", got.Notes)

	got, ok = NormalizeIngredientItem(map[string]any{"label": "milk", "quantity": 250.0, "unit": "ml"})
	require.True(t, ok)
	assert.Equal(t, 250.0, got.Grams)
	assert.Equal(t, "ml", got.Unit)

	_, ok = NormalizeIngredientItem(map[string]any{"grams": 100.0})
	assert.False(t, ok)
}

func TestNormalizeIngredientItemTinyQuantities(t *testing.T) {
	got, ok := NormalizeIngredientItem(map[string]any{"item_name": "vanilla", "quantity": 0.00001, "unit": "cups"})
	require.True(t, ok)
	assert.InDelta(t, 0.0024, got.Grams, 1e-9)
	assert.Equal(t, "g", got.Unit)

	got, ok = NormalizeIngredientItem(map[string]any{"item_name": "flour", "quantity": 1e7, "unit": "tsp"})
	require.True(t, ok)
	assert.Equal(t, 5e7, got.Grams)

	// 計數單位換算後四捨五入為 0 時改用預設份量
	got, ok = NormalizeIngredientItem(map[string]any{"item_name": "salt", "quantity": 0.001, "unit": "pinch", "calories": 1.0})
	require.True(t, ok)
	assert.Equal(t, 3.0, got.Grams)
	assert.Equal(t, got.Grams, got.Quantity)
	assert.Equal(t, 1.0, FillIngredientMacrosIfMissing(got).Calories)
	assert.Greater(t, FillIngredientMacrosIfMissing(got).Grams, 0.0)
}

func TestIsWeakRecipeName(t *testing.T) {
	for _, name := range []string{"", "Recipe", "  INGREDIENTS ", "AI Pantry Recipe 2", "ai recipe", "abc"} {
		assert.True(t, IsWeakRecipeName(name), name)
	}
	for _, name := range []string{"Chicken Curry", "Shakshuka"} {
		assert.False(t, IsWeakRecipeName(name), name)
	}
}

func TestGenerateRecipeNameFromIngredients(t *testing.T) {
	named := func(names ...string) []Ingredient {
		out := make([]Ingredient, len(names))
		for i, n := range names {
			out[i] = Ingredient{ItemName: n}
		}
		return out
	}

	assert.Equal(t, "Garlic Chicken Rice Bowl", GenerateRecipeNameFromIngredients(named("garlic", "chicken", "rice"), ""))
	assert.Equal(t, "Tofu Spinach Bowl", GenerateRecipeNameFromIngredients(named("spinach", "tofu"), ""))
	assert.Equal(t, "Tofu Skillet Bowl", GenerateRecipeNameFromIngredients(named("tofu"), ""))
	assert.Equal(t, "Onion Olive Oil Bowl", GenerateRecipeNameFromIngredients(placeholderIngredients, ""))
	assert.Equal(t, "Garlic Chili Chicken Rice Bowl", GenerateRecipeNameFromIngredients(named("chili chicken", "rice", "garlic"), ""))
	assert.Equal(t, "Lemon Salmon Rice Bowl", GenerateRecipeNameFromIngredients(named("rice", "salmon", "lemon"), ""))
	assert.Equal(t, "Fallback", GenerateRecipeNameFromIngredients(nil, "Fallback"))
	assert.Equal(t, defaultRecipeName, GenerateRecipeNameFromIngredients(nil, ""))
}

func TestSplitInstructions(t *testing.T) {
	steps := []any{"1. Chop the onion", map[string]any{"text": "Step 2: Boil water"}, "", "  ", "Serve"}
	assert.Equal(t, "1. Chop the onion\n2. Boil water\n3. Serve", SplitInstructions(steps))
	assert.Equal(t, "1. Mix\n2. Bake", SplitInstructions([]string{"Mix", "Bake"}))
	assert.Equal(t, "Just cook it.", SplitInstructions("  Just cook it. "))
	assert.Empty(t, SplitInstructions(nil))
}

func TestNormalizeGeneratedRecipe(t *testing.T) {
	raw := map[string]any{
		"recipe": map[string]any{
			"name":          "Recipe",
			"ingredients":   []any{"2 eggs", "1 cup rice", ""},
			"instructions":  []any{"Beat eggs", "Cook rice"},
			"servings":      0.0,
			"prep_time_min": "12",
		},
	}

	got, ok := NormalizeGeneratedRecipe(raw, "AI Pantry Recipe 1")
	require.True(t, ok)
	assert.Equal(t, "Eggs Rice Bowl", got.Name)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, 0, got.Ingredients[0].SortOrder)
	assert.Equal(t, 1, got.Ingredients[1].SortOrder)
	assert.Equal(t, "1. Beat eggs\n2. Cook rice", got.Instructions)
	assert.Equal(t, defaultServings, got.Servings)
	assert.Equal(t, 12, got.PrepTimeMin)
	assert.Equal(t, defaultGeneratedCookMin, got.CookTimeMin)
	assert.Equal(t, VisibilityPrivate, got.Visibility)
	assert.Equal(t, StatusToTry, got.StatusTag)
	assert.Equal(t, defaultAIReason, got.AIReason)
	assertMacroInvariant(t, got)

	_, ok = NormalizeGeneratedRecipe(map[string]any{"name": "Empty", "ingredients": []any{}}, "x")
	assert.False(t, ok)
	_, ok = NormalizeGeneratedRecipe(nil, "x")
	assert.False(t, ok)
}

func TestFinalizeRecipeMacrosIdempotent(t *testing.T) {
	recipe := FinalizeRecipeMacros(GeneratedRecipe{
		Servings: 3,
		Ingredients: []Ingredient{
			{ItemName: "chicken", Grams: 140},
			{ItemName: "rice", Grams: 75},
			{ItemName: "olive oil", Grams: 12, Calories: 100, FatG: 11},
		},
	})
	assertMacroInvariant(t, recipe)
	assert.Equal(t, recipe, FinalizeRecipeMacros(recipe))

	defaulted := FinalizeRecipeMacros(GeneratedRecipe{Ingredients: []Ingredient{{ItemName: "egg", Grams: 100}}})
	assert.Equal(t, defaultServings, defaulted.Servings)
	assert.InDelta(t, 77.5, defaulted.Calories, 0.001)
}

func assertMacroInvariant(t *testing.T, recipe GeneratedRecipe) {
	t.Helper()
	var sum Macros
	for _, ingredient := range recipe.Ingredients {
		sum.Calories += ingredient.Calories
		sum.ProteinG += ingredient.ProteinG
		sum.CarbsG += ingredient.CarbsG
		sum.FatG += ingredient.FatG
		assert.GreaterOrEqual(t, ingredient.Calories, 0.0)
		assert.Greater(t, ingredient.Grams, 0.0)
	}
	servings := float64(recipe.Servings)
	assert.InDelta(t, round2(sum.Calories/servings), recipe.Calories, 1e-6)
	assert.InDelta(t, round2(sum.ProteinG/servings), recipe.ProteinG, 1e-6)
	assert.InDelta(t, round2(sum.CarbsG/servings), recipe.CarbsG, 1e-6)
	assert.InDelta(t, round2(sum.FatG/servings), recipe.FatG, 1e-6)
}
